package repository_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todolist/internal/adapter/database/sqlite"
	"todolist/internal/adapter/database/sqlite/repository"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	. "todolist/pkg/test"
	"todolist/pkg/test/factory"
)

type TrashRepositoryTestSuite struct {
	suite.Suite
	db        *sqlite.DB
	TaskRepo  port.TaskRepository
	TrashRepo port.TrashRepository
	user      domain.User
	now       time.Time
}

func (s *TrashRepositoryTestSuite) SetupTest() {
	db := InitTestDB()
	s.T().Cleanup(func() { db.Close() })

	s.db = db
	s.TaskRepo = repository.NewTaskRepository(db, nil)
	s.TrashRepo = repository.NewTrashRepository(db, nil)
	s.now = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	user, err := repository.NewUserRepository(db, nil).Create(context.Background(), factory.NewUser[domain.User](map[string]any{
		"Username":  "alice",
		"CreatedAt": s.now,
	}))
	s.Require().NoError(err)

	s.user = user
}

func TestTrashRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TrashRepositoryTestSuite))
}

// trash creates a task and moves it to the trash at deletedAt.
func (s *TrashRepositoryTestSuite) trash(text string, deletedAt time.Time) domain.DeletedTask {
	dueDate := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	task, err := s.TaskRepo.Create(context.Background(), domain.Task{
		UserID:    s.user.ID,
		Text:      text,
		Category:  domain.CategoryStudy,
		DueDate:   &dueDate,
		CreatedAt: s.now.Add(-time.Hour),
		UpdatedAt: s.now.Add(-time.Hour),
	})
	s.Require().NoError(err)

	_, err = s.TaskRepo.MoveToTrash(context.Background(), s.user.ID, task.ID, deletedAt)
	s.Require().NoError(err)

	entries, err := s.TrashRepo.ListActive(context.Background(), s.user.ID, deletedAt)
	s.Require().NoError(err)

	for _, entry := range entries {
		if entry.OriginalTaskID == task.ID {
			return entry
		}
	}

	s.FailNow("trash entry not found")
	return domain.DeletedTask{}
}

func (s *TrashRepositoryTestSuite) TestRepository_ListActive_HidesExpired() {
	s.trash("old", s.now.Add(-16*24*time.Hour))
	s.trash("recent", s.now.Add(-time.Hour))

	entries, err := s.TrashRepo.ListActive(context.Background(), s.user.ID, s.now)

	Expect(err).To(BeNil())
	Expect(entries).To(HaveLen(1))
	Expect(entries[0].Text).To(Equal("recent"))
}

func (s *TrashRepositoryTestSuite) TestRepository_ListActive_NewestDeletionFirst() {
	s.trash("first", s.now.Add(-2*time.Hour))
	s.trash("second", s.now.Add(-time.Hour))

	entries, _ := s.TrashRepo.ListActive(context.Background(), s.user.ID, s.now)

	Expect(entries).To(HaveLen(2))
	Expect(entries[0].Text).To(Equal("second"))
}

func (s *TrashRepositoryTestSuite) TestRepository_Restore_KeepsFields() {
	entry := s.trash("Buy milk", s.now)

	taskID, restored, err := s.TrashRepo.Restore(context.Background(), s.user.ID, entry.ID, s.now.Add(time.Minute))

	Expect(err).To(BeNil())
	Expect(restored).To(BeTrue())
	Expect(taskID).NotTo(Equal(entry.OriginalTaskID))

	tasks, _ := s.TaskRepo.ListByUser(context.Background(), s.user.ID)

	Expect(tasks).To(HaveLen(1))
	Expect(tasks[0].ID).To(Equal(taskID))
	Expect(tasks[0].Text).To(Equal("Buy milk"))
	Expect(tasks[0].Category).To(Equal(domain.CategoryStudy))
	Expect(tasks[0].DueDate).NotTo(BeNil())
	Expect(tasks[0].CreatedAt.Equal(entry.CreatedAt)).To(BeTrue())

	entries, _ := s.TrashRepo.ListActive(context.Background(), s.user.ID, s.now)
	Expect(entries).To(BeEmpty())
}

func (s *TrashRepositoryTestSuite) TestRepository_Restore_RollsBackOnFailure() {
	entry := s.trash("Buy milk", s.now)

	_, err := s.db.Exec(`CREATE TRIGGER block_trash_delete BEFORE DELETE ON deleted_tasks
		BEGIN SELECT RAISE(ABORT, 'delete blocked'); END`)
	s.Require().NoError(err)

	_, restored, err := s.TrashRepo.Restore(context.Background(), s.user.ID, entry.ID, s.now.Add(time.Minute))

	Expect(err).To(MatchError(ContainSubstring("delete blocked")))
	Expect(restored).To(BeFalse())

	tasks, err := s.TaskRepo.ListByUser(context.Background(), s.user.ID)

	Expect(err).To(BeNil())
	Expect(tasks).To(BeEmpty())

	entries, err := s.TrashRepo.ListActive(context.Background(), s.user.ID, s.now)

	Expect(err).To(BeNil())
	Expect(entries).To(HaveLen(1))
	Expect(entries[0].ID).To(Equal(entry.ID))
}

func (s *TrashRepositoryTestSuite) TestRepository_Restore_Expired() {
	entry := s.trash("old", s.now.Add(-16*24*time.Hour))

	_, restored, err := s.TrashRepo.Restore(context.Background(), s.user.ID, entry.ID, s.now)

	Expect(err).To(BeNil())
	Expect(restored).To(BeFalse())
}

func (s *TrashRepositoryTestSuite) TestRepository_Restore_OtherUser() {
	entry := s.trash("private", s.now)

	_, restored, err := s.TrashRepo.Restore(context.Background(), s.user.ID+1, entry.ID, s.now)

	Expect(err).To(BeNil())
	Expect(restored).To(BeFalse())
}

func (s *TrashRepositoryTestSuite) TestRepository_Delete() {
	entry := s.trash("gone", s.now)

	deleted, err := s.TrashRepo.Delete(context.Background(), s.user.ID, entry.ID)

	Expect(err).To(BeNil())
	Expect(deleted).To(BeTrue())

	deleted, err = s.TrashRepo.Delete(context.Background(), s.user.ID, entry.ID)

	Expect(err).To(BeNil())
	Expect(deleted).To(BeFalse())
}

func (s *TrashRepositoryTestSuite) TestRepository_DeleteAll_IncludesExpired() {
	s.trash("old", s.now.Add(-16*24*time.Hour))
	s.trash("recent", s.now)

	count, err := s.TrashRepo.DeleteAll(context.Background(), s.user.ID)

	Expect(err).To(BeNil())
	Expect(count).To(Equal(2))
}

func (s *TrashRepositoryTestSuite) TestRepository_PurgeExpired() {
	s.trash("old", s.now.Add(-16*24*time.Hour))
	s.trash("boundary", s.now.Add(-domain.TrashRetention))
	s.trash("recent", s.now)

	count, err := s.TrashRepo.PurgeExpired(context.Background(), s.now)

	Expect(err).To(BeNil())
	Expect(count).To(Equal(2))

	count, err = s.TrashRepo.DeleteAll(context.Background(), s.user.ID)

	Expect(err).To(BeNil())
	Expect(count).To(Equal(1))
}
