package tag_test

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/testkit"
	"github.com/fastygo/taskboard/internal/validation"
)

func TestCreateTag(t *testing.T) {
	t.Run("rejected input inserts nothing", func(t *testing.T) {
		is := is.New(t)
		kit := testkit.New(t)
		ctx, _ := testkit.As("alice")

		_, err := kit.Tags.CreateTag(ctx, validation.CreateTagInput{Name: "", Color: "#ffffff"})
		is.True(domain.IsDomainError(err, domain.ErrCodeInvalid))
		_, err = kit.Tags.CreateTag(ctx, validation.CreateTagInput{Name: "x", Color: "red"})
		is.True(domain.IsDomainError(err, domain.ErrCodeInvalid))

		tags, err := kit.Board.ListTags(ctx)
		is.NoErr(err)
		is.Equal(len(tags), 0)
	})

	t.Run("duplicate name", func(t *testing.T) {
		is := is.New(t)
		kit := testkit.New(t)
		ctx, _ := testkit.As("alice")

		_, err := kit.Tags.CreateTag(ctx, validation.CreateTagInput{Name: "bug", Color: "#ff0000"})
		is.NoErr(err)
		_, err = kit.Tags.CreateTag(ctx, validation.CreateTagInput{Name: "bug", Color: "#00ff00"})
		is.Equal(err, domain.ErrDuplicateTagName)
	})

	t.Run("listed by name", func(t *testing.T) {
		is := is.New(t)
		kit := testkit.New(t)
		ctx, _ := testkit.As("alice")

		for _, name := range []string{"zeta", "Alpha", "mid"} {
			_, err := kit.Tags.CreateTag(ctx, validation.CreateTagInput{Name: name, Color: "#123456"})
			is.NoErr(err)
		}
		tags, err := kit.Board.ListTags(ctx)
		is.NoErr(err)
		is.Equal([]string{tags[0].Name, tags[1].Name, tags[2].Name}, []string{"Alpha", "mid", "zeta"})
	})

	t.Run("unauthenticated", func(t *testing.T) {
		is := is.New(t)
		kit := testkit.New(t)
		_, err := kit.Tags.CreateTag(context.Background(), validation.CreateTagInput{Name: "x", Color: "#ffffff"})
		is.Equal(err, domain.ErrUnauthenticated)
	})
}

func TestDeleteTagCascades(t *testing.T) {
	is := is.New(t)
	kit := testkit.New(t)
	ctx, _ := testkit.As("alice")

	a, err := kit.Tags.CreateTag(ctx, validation.CreateTagInput{Name: "A", Color: "#aaaaaa"})
	is.NoErr(err)
	b, err := kit.Tags.CreateTag(ctx, validation.CreateTagInput{Name: "B", Color: "#bbbbbb"})
	is.NoErr(err)
	task, err := kit.Tasks.CreateTask(ctx, validation.CreateTaskInput{Text: "tagged"})
	is.NoErr(err)
	_, err = kit.Tasks.UpdateTask(ctx, validation.UpdateTaskInput{ID: task.ID, Priority: "medium", TagIDs: []string{a.ID, b.ID}})
	is.NoErr(err)

	is.NoErr(kit.Tags.DeleteTag(ctx, validation.IDInput{ID: a.ID}))

	tasks, err := kit.Board.ListActiveTasks(ctx)
	is.NoErr(err)
	is.Equal(len(tasks[0].Tags), 1)
	is.Equal(tasks[0].Tags[0].ID, b.ID)

	is.NoErr(kit.Tags.DeleteTag(ctx, validation.IDInput{ID: a.ID})) // already gone
}
