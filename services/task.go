package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jihuadaka/checkin-server/models"
	"github.com/jihuadaka/checkin-server/repository"
)

const defaultTaskPoints = 10

// TaskInput carries the mutable task fields for create and update.
type TaskInput struct {
	Title       string
	Description string
	Points      int
	Category    string
}

// Sanitizer strips unsafe markup from user-supplied text before it is
// persisted.
type Sanitizer func(string) string

// TaskService manages the task catalog. Mutation is gated on ownership; a
// "deleted" task only flips to inactive so checkin and ledger history stays
// intact.
type TaskService struct {
	store    repository.Store
	clock    Clock
	loc      *time.Location
	sanitize Sanitizer
}

// NewTaskService creates a TaskService.
func NewTaskService(store repository.Store, clock Clock, loc *time.Location, sanitize Sanitizer) *TaskService {
	return &TaskService{store: store, clock: clock, loc: loc, sanitize: sanitize}
}

func (s *TaskService) normalize(in *TaskInput) error {
	in.Title = s.sanitize(strings.TrimSpace(in.Title))
	in.Description = s.sanitize(in.Description)
	in.Category = s.sanitize(strings.TrimSpace(in.Category))
	if in.Title == "" {
		return invalidField("title", "cannot be blank")
	}
	if in.Points == 0 {
		in.Points = defaultTaskPoints
	}
	if in.Points < 0 {
		return invalidField("points", "must be positive")
	}
	return nil
}

// Create adds a task owned by ownerID. Points default to 10 when omitted.
func (s *TaskService) Create(ctx context.Context, ownerID uint, in TaskInput) (*models.Task, error) {
	if err := s.normalize(&in); err != nil {
		return nil, err
	}
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Points:      in.Points,
		Category:    in.Category,
		OwnerID:     ownerID,
		IsActive:    true,
	}
	if err := s.store.Tasks().Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns the caller's active tasks decorated with today's checkin
// state.
func (s *TaskService) List(ctx context.Context, userID uint) ([]models.TaskWithStatus, error) {
	tasks, err := s.store.Tasks().ListActiveByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := DayKey(s.clock.Now(), s.loc)
	checked, err := s.store.Checkins().CheckedTaskIDs(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	out := make([]models.TaskWithStatus, 0, len(tasks))
	for _, task := range tasks {
		notes, ok := checked[task.ID]
		out = append(out, models.TaskWithStatus{
			Task:         task,
			CheckedToday: ok,
			TodayNotes:   notes,
		})
	}
	return out, nil
}

// Update replaces the mutable fields of a task. Only the owner may update;
// an inactive or missing task reports ErrTaskNotFound.
func (s *TaskService) Update(ctx context.Context, taskID, ownerID uint, in TaskInput) (*models.Task, error) {
	task, err := s.load(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.normalize(&in); err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Points = in.Points
	task.Category = in.Category
	if err := s.store.Tasks().Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SoftDelete marks a task inactive. Historical checkins and ledger entries
// are left untouched.
func (s *TaskService) SoftDelete(ctx context.Context, taskID, ownerID uint) error {
	task, err := s.load(ctx, taskID, ownerID)
	if err != nil {
		return err
	}
	task.IsActive = false
	return s.store.Tasks().Update(ctx, task)
}

func (s *TaskService) load(ctx context.Context, taskID, ownerID uint) (*models.Task, error) {
	task, err := s.store.Tasks().GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if !task.IsActive {
		return nil, ErrTaskNotFound
	}
	if task.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return task, nil
}
