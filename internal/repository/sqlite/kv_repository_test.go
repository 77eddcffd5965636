package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/wortdrill/internal/repository"
	"github.com/vytor/wortdrill/internal/repository/sqlite"
	"github.com/vytor/wortdrill/internal/testutil"
)

func TestKVRepository_Conformance(t *testing.T) {
	suite.Run(t, &testutil.KVStoreSuite{
		NewStore: func() repository.KVStore {
			return sqlite.NewKVRepository(testutil.NewTestDB(t))
		},
	})
}

type KVRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.KVStore
}

func (s *KVRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewKVRepository(s.db)
}

func (s *KVRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *KVRepositorySuite) TestSetStampsUpdatedAt() {
	ctx := context.Background()
	before := time.Now().UTC().Add(-time.Second)

	s.Require().NoError(s.repo.Set(ctx, "studyStats", []byte(`{"days":{}}`)))

	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, "studyStats").Scan(&updatedAt)
	s.Require().NoError(err)
	s.Assert().True(updatedAt.After(before))
}

func (s *KVRepositorySuite) TestUpdateRollsBackOnError() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Set(ctx, "mistakes", []byte(`[]`)))

	err := s.repo.Update(ctx, "mistakes", func([]byte, bool) ([]byte, error) {
		return nil, sql.ErrTxDone
	})
	s.Require().Error(err)

	var count int
	s.Require().NoError(s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&count))
	s.Assert().Equal(1, count)
}

func TestKVRepositorySuite(t *testing.T) {
	suite.Run(t, new(KVRepositorySuite))
}
