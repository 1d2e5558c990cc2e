package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/yungbote/neurobridge-progress/internal/app"
	"github.com/yungbote/neurobridge-progress/internal/services"
)

func runSeed(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	file := fs.StringP("file", "f", "fixtures.yaml", "YAML fixtures file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	fx, err := a.Services.Seed.Parse(f)
	if err != nil {
		return err
	}
	rep, err := a.Services.Seed.Apply(ctx, fx)
	if err != nil {
		return err
	}
	okColor.Fprintf(out, "seeded %d students, %d courses, %d modules, %d questions\n",
		rep.Students, rep.Courses, rep.Modules, rep.Questions)
	return nil
}

func runLeaderboard(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("leaderboard", pflag.ContinueOnError)
	limit := fs.IntP("limit", "n", 0, "show only the top N rows (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	entries, err := a.Services.Engine.Leaderboard.Rank(ctx)
	if err != nil {
		return err
	}
	if *limit > 0 && len(entries) > *limit {
		entries = entries[:*limit]
	}
	bold.Fprintf(out, "%-5s %-20s %-28s %9s %9s\n", "RANK", "USERNAME", "FULL NAME", "COMPLETED", "AVG")
	for _, e := range entries {
		fmt.Fprintf(out, "%-5d %-20s %-28s %9d %9.2f\n", e.RankPosition, e.Username, e.FullName, e.CoursesCompleted, e.AvgScore)
	}
	return nil
}

func runExport(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
	path := fs.StringP("out", "o", "leaderboard.xlsx", "output xlsx path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := os.Create(*path)
	if err != nil {
		return err
	}
	n, err := a.Services.LeaderboardExport.WriteXLSX(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	okColor.Fprintf(out, "wrote %d rows to %s\n", n, *path)
	return nil
}

func runRecompute(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("recompute", pflag.ContinueOnError)
	student := fs.String("student", "", "student id")
	course := fs.String("course", "", "course id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	studentID, err := uuid.Parse(strings.TrimSpace(*student))
	if err != nil {
		return fmt.Errorf("--student: %w", err)
	}
	courseID, err := uuid.Parse(strings.TrimSpace(*course))
	if err != nil {
		return fmt.Errorf("--course: %w", err)
	}
	enr, err := a.Services.Engine.Progress.Recompute(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	status := "in progress"
	if enr.IsCompleted() {
		status = "completed"
	}
	okColor.Fprintf(out, "progress %.2f%% (%s)\n", enr.ProgressPercentage, status)
	return nil
}

func runReconcile(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("reconcile", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rep, err := a.Services.Reconcile.Run(ctx)
	if err != nil {
		return err
	}
	c := okColor
	if rep.Failed > 0 {
		c = errText
	}
	c.Fprintf(out, "scanned %d, completed %d, failed %d in %s\n", rep.Scanned, rep.Completed, rep.Failed, rep.Duration)
	return nil
}

func runEvents(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("events", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	bus := a.Clients.Bus
	if bus == nil {
		return fmt.Errorf("REDIS_ADDR is not set")
	}
	err := bus.StartForwarder(ctx, func(payload []byte) {
		evt, err := services.DecodeEvent(payload)
		if err != nil {
			errText.Fprintf(out, "skip: %v\n", err)
			return
		}
		bold.Fprintf(out, "%s ", evt.At.Format("15:04:05"))
		fmt.Fprintf(out, "%-22s student=%s course=%s\n", evt.Type, evt.StudentID, evt.CourseID)
	})
	if err != nil {
		return err
	}
	bold.Fprintf(out, "listening on %s (ctrl-c to stop)\n", bus.Channel())
	<-ctx.Done()
	return nil
}
