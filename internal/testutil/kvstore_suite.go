package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/wortdrill/internal/repository"
)

// KVStoreSuite checks the behaviour every repository.KVStore must share.
// Backends run it with their own constructor.
type KVStoreSuite struct {
	suite.Suite
	NewStore func() repository.KVStore
	store    repository.KVStore
}

func (s *KVStoreSuite) SetupTest() {
	s.store = s.NewStore()
}

func (s *KVStoreSuite) TearDownTest() {
	MustClose(s.T(), s.store)
}

func (s *KVStoreSuite) TestGetMissing() {
	v, ok, err := s.store.Get(context.Background(), "learnedWords")
	s.Require().NoError(err)
	s.Assert().False(ok)
	s.Assert().Nil(v)
}

func (s *KVStoreSuite) TestSetGetOverwrite() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "selectedUnits", []byte(`[1,2]`)))
	s.Require().NoError(s.store.Set(ctx, "selectedUnits", []byte(`[3]`)))

	v, ok, err := s.store.Get(ctx, "selectedUnits")
	s.Require().NoError(err)
	s.Assert().True(ok)
	s.Assert().Equal(`[3]`, string(v))
}

func (s *KVStoreSuite) TestStoresNonJSONValues() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "mistakes", []byte(`{not json`)))

	v, ok, err := s.store.Get(ctx, "mistakes")
	s.Require().NoError(err)
	s.Assert().True(ok)
	s.Assert().Equal(`{not json`, string(v))
}

func (s *KVStoreSuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "testResults", []byte(`[]`)))
	s.Require().NoError(s.store.Delete(ctx, "testResults"))
	s.Require().NoError(s.store.Delete(ctx, "testResults"))

	_, ok, err := s.store.Get(ctx, "testResults")
	s.Require().NoError(err)
	s.Assert().False(ok)
}

func (s *KVStoreSuite) TestKeysSorted() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "studyStats", []byte(`{}`)))
	s.Require().NoError(s.store.Set(ctx, "learnedWords", []byte(`[]`)))

	keys, err := s.store.Keys(ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"learnedWords", "studyStats"}, keys)
}

func (s *KVStoreSuite) TestUpdateSeesCurrentValue() {
	ctx := context.Background()

	err := s.store.Update(ctx, "counter", func(cur []byte, exists bool) ([]byte, error) {
		s.Assert().False(exists)
		s.Assert().Nil(cur)
		return []byte("a"), nil
	})
	s.Require().NoError(err)

	err = s.store.Update(ctx, "counter", func(cur []byte, exists bool) ([]byte, error) {
		s.Assert().True(exists)
		return append(cur, 'b'), nil
	})
	s.Require().NoError(err)

	v, _, err := s.store.Get(ctx, "counter")
	s.Require().NoError(err)
	s.Assert().Equal("ab", string(v))
}

func (s *KVStoreSuite) TestUpdateSkipAndError() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "k", []byte("keep")))

	err := s.store.Update(ctx, "k", func([]byte, bool) ([]byte, error) {
		return []byte("lost"), repository.ErrSkipWrite
	})
	s.Require().NoError(err)

	boom := errors.New("boom")
	err = s.store.Update(ctx, "k", func([]byte, bool) ([]byte, error) {
		return []byte("lost"), boom
	})
	s.Require().ErrorIs(err, boom)

	v, _, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.Assert().Equal("keep", string(v))
}

func (s *KVStoreSuite) TestConcurrentUpdatesAreSerialized() {
	ctx := context.Background()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Update(ctx, "log", func(cur []byte, _ bool) ([]byte, error) {
				return append(cur, 'x'), nil
			})
			s.Assert().NoError(err)
		}()
	}
	wg.Wait()

	v, _, err := s.store.Get(ctx, "log")
	s.Require().NoError(err)
	s.Assert().Len(v, writers)
}

func (s *KVStoreSuite) TestUpdateNilDeletes() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "selectedUnits", []byte(`[1]`)))

	err := s.store.Update(ctx, "selectedUnits", func([]byte, bool) ([]byte, error) {
		return nil, nil
	})
	s.Require().NoError(err)

	_, ok, err := s.store.Get(ctx, "selectedUnits")
	s.Require().NoError(err)
	s.Assert().False(ok)
}
