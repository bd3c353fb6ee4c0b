package model

import "time"

// UntitledTask is shown for tasks without a title.
const UntitledTask = "(Ohne Titel)"

// PlannerTask is a task from the planner task system.
type PlannerTask struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	Completed bool       `json:"completed"`
}

// ToDoTask is a task from the to-do task system, tagged with its list name.
type ToDoTask struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	Completed bool       `json:"completed"`
	ListName  string     `json:"listName"`
}

// ToDoList is a to-do task list.
type ToDoList struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Profile is the signed-in user's groupware profile.
type Profile struct {
	DisplayName string `json:"displayName"`
	JobTitle    string `json:"jobTitle"`
}
