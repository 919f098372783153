package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"octoberpages/media-cleanup-service/internal/app/media-cleanup/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PendingReleaseRepositoryTestSuite тестовый suite для PostgreSQL repository
type PendingReleaseRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  PendingReleaseRepository
	sqlDB *sql.DB
}

func TestPendingReleaseRepositorySuite(t *testing.T) {
	suite.Run(t, new(PendingReleaseRepositoryTestSuite))
}

func (s *PendingReleaseRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewPendingReleaseRepository(s.db)
}

func (s *PendingReleaseRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

// ===================== Enqueue Tests =====================

func (s *PendingReleaseRepositoryTestSuite) TestEnqueue_Success() {
	ctx := context.Background()

	release := &entity.PendingRelease{
		PublicID:   "products/cover_1",
		ProductID:  "68a1b2c3d4e5f60718293a4b",
		Storefront: "books",
		LastError:  "cloudinary unavailable",
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "pending_releases"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Enqueue(ctx, release)

	// Assert
	s.NoError(err)
	s.NotEqual(uuid.Nil, release.ID) // ID назначается при постановке
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PendingReleaseRepositoryTestSuite) TestEnqueue_UpsertOnConflict() {
	// Повторная постановка того же public_id не падает на уникальном индексе
	ctx := context.Background()

	release := &entity.PendingRelease{
		ID:        uuid.New(),
		PublicID:  "products/cover_1",
		LastError: "second failure",
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO "pending_releases" .* ON CONFLICT`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Enqueue(ctx, release)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PendingReleaseRepositoryTestSuite) TestEnqueue_DBError() {
	ctx := context.Background()

	release := &entity.PendingRelease{
		PublicID: "products/cover_1",
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "pending_releases"`)).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Enqueue(ctx, release)

	// Assert
	s.Error(err)
	s.Contains(err.Error(), "failed to enqueue")
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== ListBatch Tests =====================

func (s *PendingReleaseRepositoryTestSuite) TestListBatch_Success() {
	ctx := context.Background()
	id1 := uuid.New()
	id2 := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "public_id", "product_id", "storefront", "attempts", "last_error", "created_at", "updated_at"}).
		AddRow(id1, "products/cover_1", "aaa", "books", 1, "err", now.Add(-time.Hour), now).
		AddRow(id2, "products/cover_2", "bbb", "clothing", 0, "", now, now)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pending_releases"`)).
		WillReturnRows(rows)

	// Act
	releases, err := s.repo.ListBatch(ctx, 50)

	// Assert
	s.NoError(err)
	s.Len(releases, 2)
	s.Equal(id1, releases[0].ID)
	s.Equal("products/cover_1", releases[0].PublicID)
	s.Equal(1, releases[0].Attempts)
	s.Equal("clothing", releases[1].Storefront)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PendingReleaseRepositoryTestSuite) TestListBatch_Empty() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "public_id", "product_id", "storefront", "attempts", "last_error", "created_at", "updated_at"})

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pending_releases"`)).
		WillReturnRows(rows)

	// Act
	releases, err := s.repo.ListBatch(ctx, 50)

	// Assert
	s.NoError(err)
	s.Empty(releases)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PendingReleaseRepositoryTestSuite) TestListBatch_DBError() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pending_releases"`)).
		WillReturnError(sql.ErrConnDone)

	// Act
	releases, err := s.repo.ListBatch(ctx, 50)

	// Assert
	s.Error(err)
	s.Nil(releases)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== MarkFailed Tests =====================

func (s *PendingReleaseRepositoryTestSuite) TestMarkFailed_Success() {
	ctx := context.Background()
	id := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pending_releases" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.MarkFailed(ctx, id, "still unavailable")

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PendingReleaseRepositoryTestSuite) TestMarkFailed_NotFound() {
	ctx := context.Background()
	id := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pending_releases" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.MarkFailed(ctx, id, "still unavailable")

	// Assert
	s.Error(err)
	s.Contains(err.Error(), "not found")
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Delete Tests =====================

func (s *PendingReleaseRepositoryTestSuite) TestDelete_Success() {
	ctx := context.Background()
	id := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "pending_releases"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Delete(ctx, id)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PendingReleaseRepositoryTestSuite) TestDelete_NotFound() {
	ctx := context.Background()
	id := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "pending_releases"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Delete(ctx, id)

	// Assert
	s.Error(err)
	s.Contains(err.Error(), "not found")
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Count Tests =====================

func (s *PendingReleaseRepositoryTestSuite) TestCount_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"count"}).AddRow(int64(3))

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "pending_releases"`)).
		WillReturnRows(rows)

	// Act
	count, err := s.repo.Count(ctx)

	// Assert
	s.NoError(err)
	s.Equal(int64(3), count)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PendingReleaseRepositoryTestSuite) TestCount_DBError() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "pending_releases"`)).
		WillReturnError(sql.ErrConnDone)

	// Act
	count, err := s.repo.Count(ctx)

	// Assert
	s.Error(err)
	s.Equal(int64(0), count)
	s.NoError(s.mock.ExpectationsWereMet())
}
