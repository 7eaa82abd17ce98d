package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestShutdown_ReverseOrder(t *testing.T) {
	is := is.New(t)
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"postgres", "redis", "http_server"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("ignored", nil)

	is.Equal(m.Components(), []string{"http_server", "redis", "postgres"})
	is.NoErr(m.Shutdown(context.Background()))
	is.Equal(order, []string{"http_server", "redis", "postgres"})

	is.NoErr(m.Shutdown(context.Background())) // hooks run once
	is.Equal(len(order), 3)
}

func TestShutdown_JoinsErrors(t *testing.T) {
	is := is.New(t)
	m := New(time.Second, nil)
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	ran := false
	m.Register("a", func(context.Context) error { return errA })
	m.Register("ok", func(context.Context) error { ran = true; return nil })
	m.Register("b", func(context.Context) error { return errB })

	err := m.Shutdown(context.Background())
	is.True(errors.Is(err, errA))
	is.True(errors.Is(err, errB))
	is.True(ran) // a failing hook does not stop the rest
}

func TestShutdown_Deadline(t *testing.T) {
	is := is.New(t)
	m := New(50*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	is.True(errors.Is(m.Shutdown(context.Background()), context.DeadlineExceeded))
}

func TestListen_Stop(t *testing.T) {
	is := is.New(t)
	m := New(time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := m.Listen(cancel)
	stop()
	stop()
	is.NoErr(ctx.Err())
}
