package board_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/matryer/is"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/testkit"
	"github.com/fastygo/taskboard/internal/validation"
	"github.com/fastygo/taskboard/repository"
	boltRepo "github.com/fastygo/taskboard/repository/bolt"
	"github.com/fastygo/taskboard/usecase/board"
)

func TestBoard(t *testing.T) {
	kit := testkit.New(t)
	ctx, _ := testkit.As("alice")

	release, err := kit.Tags.CreateTag(ctx, validation.CreateTagInput{Name: "release", Color: "#00ff00"})
	if err != nil {
		t.Fatal(err)
	}

	yesterday := testkit.Start.AddDate(0, 0, -1).Format("2006-01-02")
	today := testkit.Start.Format("2006-01-02")
	seed := []struct {
		text     string
		priority string
		due      *string
		tags     []string
	}{
		{"ship high", "high", &yesterday, []string{release.ID}},
		{"ship low", "low", &today, nil},
		{"ship medium", "medium", nil, []string{release.ID}},
	}
	for _, s := range seed {
		created, err := kit.Tasks.CreateTask(ctx, validation.CreateTaskInput{Text: s.text, Description: "board seed"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := kit.Tasks.UpdateTask(ctx, validation.UpdateTaskInput{
			ID: created.ID, Priority: s.priority, DueDate: s.due, TagIDs: s.tags,
		}); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("columns sorted by priority", func(t *testing.T) {
		is := is.New(t)
		board, err := kit.Board.Board(ctx, domain.TaskQuery{})
		is.NoErr(err)
		is.Equal(len(board.Columns), 4)
		is.Equal(board.Columns[0].Title, "Not Started")
		col := board.Columns[0].Tasks
		is.Equal(len(col), 3)
		is.Equal([]string{col[0].Text, col[1].Text, col[2].Text}, []string{"ship high", "ship medium", "ship low"})
	})

	t.Run("stats and tag counts", func(t *testing.T) {
		is := is.New(t)
		board, err := kit.Board.Board(ctx, domain.TaskQuery{})
		is.NoErr(err)
		is.Equal(board.Stats, domain.BoardStats{Total: 3, Completed: 0, Overdue: 1})
		is.Equal(len(board.Tags), 1)
		is.Equal(board.Tags[0].Tasks, 2)
	})

	t.Run("search and tag filter", func(t *testing.T) {
		is := is.New(t)
		board, err := kit.Board.Board(ctx, domain.TaskQuery{Search: "LOW"})
		is.NoErr(err)
		is.Equal(len(board.Columns[0].Tasks), 1)

		board, err = kit.Board.Board(ctx, domain.TaskQuery{TagIDs: []string{release.ID}})
		is.NoErr(err)
		is.Equal(len(board.Columns[0].Tasks), 2)
		is.Equal(board.Stats.Total, 3) // stats ignore filters
	})
}

func TestDanglingTagReferencesAreDropped(t *testing.T) {
	is := is.New(t)
	kit := testkit.New(t)
	ctx, _ := testkit.As("alice")

	tag, err := kit.Tags.CreateTag(ctx, validation.CreateTagInput{Name: "kept", Color: "#010203"})
	is.NoErr(err)
	created, err := kit.Tasks.CreateTask(ctx, validation.CreateTaskInput{Text: "refs"})
	is.NoErr(err)

	// write an unknown id straight to storage, bypassing the use case checks
	repo := boltRepo.NewTaskRepository(kit.Store)
	stored, err := repo.GetByID(ctx, created.WorkspaceID, created.ID)
	is.NoErr(err)
	stored.TagIDs = []string{uuid.NewString(), tag.ID}
	is.NoErr(repo.Update(ctx, stored))

	tasks, err := kit.Board.ListActiveTasks(ctx)
	is.NoErr(err)
	is.Equal(len(tasks[0].Tags), 1)
	is.Equal(tasks[0].Tags[0].ID, tag.ID)
}

// pausingTasks holds the first List call after it has read storage until
// resume is closed.
type pausingTasks struct {
	repository.TaskRepository
	once   sync.Once
	loaded chan struct{}
	resume chan struct{}
}

func (p *pausingTasks) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	tasks, err := p.TaskRepository.List(ctx, filter)
	p.once.Do(func() {
		close(p.loaded)
		<-p.resume
	})
	return tasks, err
}

func TestSlowReaderDoesNotCacheStaleBoard(t *testing.T) {
	is := is.New(t)
	kit := testkit.New(t)
	readerCtx, _ := testkit.As("alice")
	writerCtx, _ := testkit.As("alice")

	_, err := kit.Workspaces.ResolveActiveWorkspace(readerCtx)
	is.NoErr(err)
	_, err = kit.Workspaces.ResolveActiveWorkspace(writerCtx)
	is.NoErr(err)

	tasks := &pausingTasks{
		TaskRepository: boltRepo.NewTaskRepository(kit.Store),
		loaded:         make(chan struct{}),
		resume:         make(chan struct{}),
	}
	slow := board.New(tasks, boltRepo.NewTagRepository(kit.Store), kit.Workspaces, kit.Cache, nil)

	done := make(chan error, 1)
	go func() {
		_, err := slow.ListActiveTasks(readerCtx)
		done <- err
	}()

	<-tasks.loaded
	_, err = kit.Tasks.CreateTask(writerCtx, validation.CreateTaskInput{Text: "written mid-read"})
	is.NoErr(err)
	close(tasks.resume)
	is.NoErr(<-done)

	fresh, err := kit.Board.ListActiveTasks(writerCtx)
	is.NoErr(err)
	is.Equal(len(fresh), 1)
	is.Equal(fresh[0].Text, "written mid-read")
}
