package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/models"
	"github.com/aidenmac0822-glitch/Intense-Notes/pkg/store"
)

// CreateTaskPayload defines the expected JSON for creating a task.
type CreateTaskPayload struct {
	Title     string `json:"title" binding:"required"`
	ClassName string `json:"className"`
	Due       string `json:"due"` // YYYY-MM-DD, empty for undated
}

func (h *Handler) CreateTask(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	var payload CreateTaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	newTask := models.Task{
		Title:     payload.Title,
		ClassName: payload.ClassName,
		Due:       payload.Due,
	}
	if payload.Due != "" && !newTask.HasDue() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Due must be a %s date", models.DueDateLayout)})
		return
	}
	id, err := h.Store.CreateTask(c.Request.Context(), user.UID, newTask)
	if err != nil {
		log.Printf("[TaskHandler] Failed to create task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save task"})
		return
	}
	newTask.ID = id
	c.JSON(http.StatusCreated, newTask)
}

func (h *Handler) ListTasks(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	tasks, err := h.Store.ListTasks(c.Request.Context(), user.UID)
	if err != nil {
		log.Printf("[TaskHandler] Failed to list tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// UpdateTaskPayload is a merge-write: only the fields present are touched.
type UpdateTaskPayload struct {
	Title     *string `json:"title"`
	ClassName *string `json:"className"`
	Due       *string `json:"due"`
	Done      *bool   `json:"done"`
}

func (h *Handler) UpdateTask(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	var payload UpdateTaskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload: " + err.Error()})
		return
	}
	fields := store.Fields{}
	if payload.Title != nil {
		fields[store.FieldTitle] = *payload.Title
	}
	if payload.ClassName != nil {
		fields[store.FieldClassName] = *payload.ClassName
	}
	if payload.Due != nil {
		if *payload.Due != "" && !(models.Task{Due: *payload.Due}).HasDue() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Due must be a %s date", models.DueDateLayout)})
			return
		}
		fields[store.FieldDue] = *payload.Due
	}
	if payload.Done != nil {
		fields[store.FieldDone] = *payload.Done
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.Store.SaveTaskFields(c.Request.Context(), user.UID, c.Param("id"), fields); err != nil {
		log.Printf("[TaskHandler] Failed to update task %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully"})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	if err := h.Store.DeleteTask(c.Request.Context(), user.UID, c.Param("id")); err != nil {
		log.Printf("[TaskHandler] Failed to delete task %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
