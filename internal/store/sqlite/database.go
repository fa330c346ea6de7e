package sqlite

import (
	"context"
	"time"

	"github.com/NomadCrew/feedback-board/logger"
	"github.com/ncruces/go-sqlite3/gormlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	// Registers the embedded SQLite build used by the ncruces driver.
	_ "github.com/ncruces/go-sqlite3/embed"
)

// zapWriter routes GORM's log lines through the application logger.
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...any) {
	logger.GetLogger().Debugf(format, args...)
}

// Open opens (or creates) the SQLite database at dsn and applies the pragmas
// the feedback store relies on.
func Open(dsn string, debug bool) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(gormlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(zapWriter{}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	internalDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	internalDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA journal_mode=wal; PRAGMA busy_timeout=5000").Error; err != nil {
		return nil, errors.WithStack(err)
	}

	logger.GetLogger().Infow("Opened SQLite database", "dsn", dsn)
	return db, nil
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	internalDB, err := db.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(internalDB.Close())
}

// Pinger reports SQLite connectivity to the health service.
type Pinger struct {
	db *gorm.DB
}

func NewPinger(db *gorm.DB) Pinger {
	return Pinger{db: db}
}

func (p Pinger) Ping(ctx context.Context) error {
	internalDB, err := p.db.DB()
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(internalDB.PingContext(ctx))
}
