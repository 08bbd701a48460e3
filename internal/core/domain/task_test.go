package domain

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func TestCategory_IsValid(t *testing.T) {
	RegisterTestingT(t)

	for _, category := range Categories {
		Expect(category.IsValid()).To(BeTrue(), string(category))
	}

	Expect(CategoryNone.IsValid()).To(BeTrue())
	Expect(Category("shopping").IsValid()).To(BeFalse())
	Expect(Category("Work").IsValid()).To(BeFalse())
}

func TestParseCategory(t *testing.T) {
	RegisterTestingT(t)

	category, err := ParseCategory(" study ")
	Expect(err).To(BeNil())
	Expect(category).To(Equal(CategoryStudy))

	_, err = ParseCategory("shopping")
	Expect(errors.Is(err, ErrValidation)).To(BeTrue())
}

func TestParseDueDate(t *testing.T) {
	t.Run("should parse calendar dates as UTC midnight", func(t *testing.T) {
		date, err := ParseDueDate("2025-01-01")

		assert.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), date)
		assert.Equal(t, "2025-01-01", *FormatDueDate(&date))
	})

	t.Run("should reject malformed dates", func(t *testing.T) {
		_, err := ParseDueDate("01/01/2025")

		var validationErr *ValidationError
		assert.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "due_date", validationErr.Field)
	})

	t.Run("should format nil as nil", func(t *testing.T) {
		assert.Nil(t, FormatDueDate(nil))
	})
}

func TestTask_MoveToTrash(t *testing.T) {
	RegisterTestingT(t)

	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	deleted := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	task := Task{
		ID:        7,
		UserID:    3,
		Text:      "Buy milk",
		Completed: true,
		Category:  CategoryHome,
		DueDate:   &due,
		CreatedAt: created,
	}

	entry := task.MoveToTrash(deleted)

	Expect(entry.OriginalTaskID).To(Equal(int64(7)))
	Expect(entry.UserID).To(Equal(int64(3)))
	Expect(entry.Text).To(Equal("Buy milk"))
	Expect(entry.Completed).To(BeTrue())
	Expect(entry.Category).To(Equal(CategoryHome))
	Expect(entry.CreatedAt).To(Equal(created))
	Expect(entry.DeletedAt).To(Equal(deleted))
	Expect(entry.ExpiresAt.Sub(entry.DeletedAt)).To(Equal(15 * 24 * time.Hour))
}

func TestDeletedTask_IsExpired(t *testing.T) {
	now := time.Now()
	entry := DeletedTask{ExpiresAt: now}

	assert.True(t, entry.IsExpired(now))
	assert.True(t, entry.IsExpired(now.Add(time.Second)))
	assert.False(t, entry.IsExpired(now.Add(-time.Second)))
}

func TestDeletedTask_Restore(t *testing.T) {
	RegisterTestingT(t)

	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)

	entry := DeletedTask{ID: 11, UserID: 2, OriginalTaskID: 4, Text: "Read", CreatedAt: created}
	task := entry.Restore(now)

	Expect(task.ID).To(BeZero())
	Expect(task.UserID).To(Equal(int64(2)))
	Expect(task.Text).To(Equal("Read"))
	Expect(task.CreatedAt).To(Equal(created))
	Expect(task.UpdatedAt).To(Equal(now))
}

func TestTaskPatch_IsEmpty(t *testing.T) {
	completed := true

	assert.True(t, TaskPatch{}.IsEmpty())
	assert.False(t, TaskPatch{Completed: &completed}.IsEmpty())
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(ErrExpiredToken))
	assert.True(t, IsAuthError(errors.Join(errors.New("ctx"), ErrUserNotFound)))
	assert.False(t, IsAuthError(ErrNotFound))
}
