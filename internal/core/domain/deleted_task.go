package domain

import "time"

// TrashRetention is how long a deleted task stays recoverable.
const TrashRetention = 15 * 24 * time.Hour

type DeletedTask struct {
	ID             int64
	UserID         int64
	OriginalTaskID int64
	Text           string
	Completed      bool
	Category       Category
	DueDate        *time.Time
	CreatedAt      time.Time
	DeletedAt      time.Time
	ExpiresAt      time.Time
}

func ExpiryFor(deletedAt time.Time) time.Time {
	return deletedAt.Add(TrashRetention)
}

func (d *DeletedTask) IsExpired(now time.Time) bool {
	return !d.ExpiresAt.After(now)
}

// Restore rebuilds a live task from the entry. The id is assigned on insert.
func (d *DeletedTask) Restore(now time.Time) Task {
	return Task{
		UserID:    d.UserID,
		Text:      d.Text,
		Completed: d.Completed,
		Category:  d.Category,
		DueDate:   d.DueDate,
		CreatedAt: d.CreatedAt,
		UpdatedAt: now,
	}
}
