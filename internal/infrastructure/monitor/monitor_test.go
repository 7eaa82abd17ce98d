package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/matryer/is"
	redislib "github.com/redis/go-redis/v9"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestMonitor_Refresh(t *testing.T) {
	is := is.New(t)
	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr()})
	defer client.Close()

	var storageErr error
	mon := New(pingerFunc(func(context.Context) error { return storageErr }), "bolt", client, nil)

	is.True(!mon.IsOnline()) // nothing checked yet
	is.Equal(mon.GetStatus().StorageDriver, "bolt")

	is.NoErr(mon.Refresh(context.Background()))
	status := mon.GetStatus()
	is.True(status.Storage)
	is.True(status.Redis)
	is.True(!status.LastCheck.IsZero())
	is.True(mon.IsOnline())

	storageErr = errors.New("database not open")
	srv.Close()
	is.NoErr(mon.Refresh(context.Background()))
	status = mon.GetStatus()
	is.True(!status.Storage)
	is.True(!status.Redis)
	is.True(!mon.IsOnline())
}

func TestMonitor_MissingDependencies(t *testing.T) {
	is := is.New(t)
	mon := New(nil, "postgres", nil, nil)
	is.NoErr(mon.Refresh(context.Background()))
	is.True(!mon.GetStatus().Storage)
	is.True(!mon.GetStatus().Redis)
}
