package learning

import (
	"time"

	"github.com/google/uuid"
)

// Course and its modules are authored outside the engine and only read here.
type Course struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string    `gorm:"column:title;not null" json:"title"`
	Instructor    string    `gorm:"column:instructor" json:"instructor"`
	DurationHours int       `gorm:"column:duration_hours;not null;default:0" json:"duration_hours"`
	Description   string    `gorm:"column:description;type:text" json:"description"`

	Modules []*CourseModule `gorm:"foreignKey:CourseID;references:ID" json:"modules,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

// CourseModule.OrderNum is unique within a course; gaps are allowed.
type CourseModule struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_module_order,priority:1" json:"course_id"`
	OrderNum int       `gorm:"column:order_num;not null;uniqueIndex:idx_course_module_order,priority:2" json:"order_num"`
	Title    string    `gorm:"column:title;not null" json:"title"`
	Content  string    `gorm:"column:content;type:text" json:"content,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CourseModule) TableName() string { return "course_module" }
