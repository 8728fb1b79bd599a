// Package pool hands out exclusive-use server connections. A connection is
// owned by exactly one unit of work between Borrow and Return; Return resets
// it, rolling back whatever the server still had in flight.
package pool

import (
	"context"

	cp "github.com/jolestar/go-commons-pool"

	"github.com/norvikdb/norvik-go/internal/db"
	"github.com/norvikdb/norvik-go/pkg/errors"
	"github.com/norvikdb/norvik-go/pkg/logger"
)

// Connector opens a new server connection.
type Connector func(ctx context.Context) (db.Connection, error)

type Pool struct {
	inner *cp.ObjectPool
	log   logger.Logger
}

func New(ctx context.Context, maxSize int, connect Connector, log logger.Logger) *Pool {
	config := cp.NewDefaultPoolConfig()
	config.MaxTotal = maxSize
	config.MaxIdle = maxSize
	config.TestOnBorrow = true
	config.BlockWhenExhausted = true

	return &Pool{
		inner: cp.NewObjectPool(ctx, &connectionFactory{connect: connect}, config),
		log:   log.With("pool"),
	}
}

// Borrow acquires a live connection, waiting for one to be freed when the
// pool is at capacity. Dead idle connections are discarded, not handed out.
func (p *Pool) Borrow(ctx context.Context) (db.Connection, error) {
	obj, err := p.inner.BorrowObject(ctx)
	if err != nil {
		return nil, errors.WrapFail(err, "borrow server connection")
	}
	return obj.(db.Connection), nil
}

// Return gives a connection back. Broken connections are invalidated so the
// pool can open fresh ones in their place.
func (p *Pool) Return(ctx context.Context, conn db.Connection) {
	if !conn.IsAlive() {
		if err := p.inner.InvalidateObject(ctx, conn); err != nil {
			p.log.Error(errors.WrapFail(err, "invalidate dead connection"))
		}
		return
	}

	conn.Reset(ctx)
	if err := p.inner.ReturnObject(ctx, conn); err != nil {
		p.log.Error(errors.WrapFail(err, "return connection"))
	}
}

// Close tears down the pool and every idle connection in it.
func (p *Pool) Close(ctx context.Context) {
	p.inner.Close(ctx)
}

type connectionFactory struct {
	connect Connector
}

func (f *connectionFactory) MakeObject(ctx context.Context) (*cp.PooledObject, error) {
	conn, err := f.connect(ctx)
	if err != nil {
		return nil, errors.WrapFail(err, "open server connection")
	}
	return cp.NewPooledObject(conn), nil
}

func (f *connectionFactory) DestroyObject(ctx context.Context, object *cp.PooledObject) error {
	object.Object.(db.Connection).Close(ctx)
	return nil
}

func (f *connectionFactory) ValidateObject(ctx context.Context, object *cp.PooledObject) bool {
	return object.Object.(db.Connection).IsAlive()
}

func (f *connectionFactory) ActivateObject(ctx context.Context, object *cp.PooledObject) error {
	return nil
}

func (f *connectionFactory) PassivateObject(ctx context.Context, object *cp.PooledObject) error {
	return nil
}
