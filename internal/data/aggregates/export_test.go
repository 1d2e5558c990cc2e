package aggregates

var ExecuteWriteForTest = executeWrite
