package models

import "time"

// Task задача пользователя. OwnerUID ссылается на users.uid.
type Task struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Status    bool      `json:"status"`
	OwnerUID  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskResponse публичное представление задачи.
type TaskResponse struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status bool   `json:"status"`
}

// ToResponse строит TaskResponse из Task.
func (t *Task) ToResponse() TaskResponse {
	return TaskResponse{ID: t.ID, Title: t.Title, Status: t.Status}
}

// TasksToResponse строит представления для списка задач.
func TasksToResponse(tasks []Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, tasks[i].ToResponse())
	}
	return out
}
