package database

import (
	"catalogo_server/lib"
	"catalogo_server/structs"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/uptrace/bun"
)

// ReadRetry retries SELECTs that failed for a transient reason. It only
// accepts a SELECT builder, so a write can never be replayed through it.
type ReadRetry struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

var readRetry = ReadRetry{Attempts: 3, BaseDelay: 100 * time.Millisecond, MaxDelay: 2 * time.Second}

// NewReadRetry builds the policy from the Database config section
func NewReadRetry(cfg *structs.DatabaseConfig) ReadRetry {
	r := ReadRetry{
		Attempts:  cfg.ReadAttempts,
		BaseDelay: cfg.RetryBaseDelay,
		MaxDelay:  cfg.RetryMaxDelay,
	}
	if r.Attempts < 1 {
		r.Attempts = 1
	}
	if r.MaxDelay < r.BaseDelay {
		r.MaxDelay = r.BaseDelay
	}
	return r
}

// Select scans build() until it succeeds, fails permanently, or attempts run
// out. build is called again for every attempt so destinations start empty.
func (r ReadRetry) Select(ctx context.Context, build func() *bun.SelectQuery) error {
	return r.run(ctx, func(ctx context.Context) error {
		return build().Scan(ctx)
	})
}

func (r ReadRetry) run(ctx context.Context, read func(ctx context.Context) error) error {
	delay := r.BaseDelay
	var err error

	for attempt := 1; ; attempt++ {
		if err = read(ctx); err == nil || !transient(err) || attempt >= r.Attempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, r.MaxDelay)
	}
}

// transient reports whether a failed read may succeed when simply repeated:
// connection loss, exhausted resources, or a serialization conflict.
func transient(err error) bool {
	if err == nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrNoRows) {
		return false
	}

	if code := lib.PgErrorCode(err); code != "" {
		switch code {
		case "40001", "40P01", "57P03": // serialization, deadlock, cannot_connect_now
			return true
		}
		class := code[:2]
		return class == "08" || class == "53" // connection_exception, insufficient_resources
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
