package service

import (
	"Wishwall/internal/model"
	"Wishwall/internal/repo"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "s3cret"

// мок для repo.DocumentSink
type mockSink struct{ mock.Mock }

func (m *mockSink) Read(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSink) Write(ctx context.Context, data []byte) error {
	return m.Called(ctx, data).Error(0)
}

var _ repo.DocumentSink = (*mockSink)(nil)

// memSink — простое хранилище в памяти для сценарных тестов
type memSink struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

func (m *memSink) Read(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, repo.ErrDocumentAbsent
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memSink) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.writes++
	return nil
}

type countingObserver struct {
	mu   sync.Mutex
	seen map[string]int
}

func (o *countingObserver) ObserveOperation(op, out string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seen == nil {
		o.seen = map[string]int{}
	}
	o.seen[op+":"+out]++
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newMemService(t *testing.T) (*WishService, *memSink) {
	t.Helper()
	sink := &memSink{}
	return NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar()), sink
}

func encode(t *testing.T, wishes []model.Wish) []byte {
	t.Helper()
	b, err := json.Marshal(wishes)
	require.NoError(t, err)
	return b
}

func TestWishService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("absent document is empty", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return(nil, repo.ErrDocumentAbsent).Once()
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		list, err := svc.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
		sink.AssertExpectations(t)
	})

	t.Run("read failure is fail-open", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return(nil, errors.New("disk")).Once()
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		list, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("corrupt document is fail-open", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return([]byte(`{"not":"an array"}`), nil).Once()
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		list, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("strict policy surfaces persistence error", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return([]byte(`garbage`), nil).Once()
		opts := DefaultOptions(secret)
		opts.FailOpenReads = false
		svc := NewWishService(sink, opts, zap.NewNop().Sugar())

		list, err := svc.List(ctx)
		assert.Nil(t, list)
		assert.ErrorIs(t, err, ErrPersistence)
	})

	t.Run("null document is empty", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return([]byte(`null`), nil).Once()
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		list, err := svc.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
	})
}

func TestWishService_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

	t.Run("defaults and server-assigned fields", func(t *testing.T) {
		existing := []model.Wish{{ID: 1, Name: "Old", Location: "Here", Message: "older", Date: "2024-01-01T00:00:00.000Z"}}
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return(encode(t, existing), nil).Once()

		var written []model.Wish
		sink.On("Write", mock.Anything, mock.MatchedBy(func(b []byte) bool {
			return json.Unmarshal(b, &written) == nil
		})).Return(nil).Once()

		opts := DefaultOptions(secret)
		opts.Now = fixedClock(now)
		svc := NewWishService(sink, opts, zap.NewNop().Sugar())

		w, err := svc.Create(ctx, CreateInput{Message: "hi"})
		require.NoError(t, err)
		assert.Equal(t, now.UnixMilli(), w.ID)
		assert.Equal(t, model.DefaultName, w.Name)
		assert.Equal(t, model.DefaultLocation, w.Location)
		assert.Equal(t, "2025-03-14T09:26:53.589Z", w.Date)
		assert.False(t, w.HasReply())
		assert.Empty(t, w.ReplyDate)

		// новая запись в начале, старая сохранена
		if assert.Len(t, written, 2) {
			assert.Equal(t, *w, written[0])
			assert.Equal(t, existing[0], written[1])
		}
		sink.AssertExpectations(t)
	})

	t.Run("missing message fails without io", func(t *testing.T) {
		sink := new(mockSink)
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		w, err := svc.Create(ctx, CreateInput{Name: "Bob"})
		assert.Nil(t, w)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "message is required")
		sink.AssertNotCalled(t, "Read", mock.Anything)
		sink.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	})

	t.Run("write failure is persistence error", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return(nil, repo.ErrDocumentAbsent).Once()
		sink.On("Write", mock.Anything, mock.Anything).Return(errors.New("quota")).Once()
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		w, err := svc.Create(ctx, CreateInput{Message: "hi"})
		assert.Nil(t, w)
		assert.ErrorIs(t, err, ErrPersistence)
		sink.AssertExpectations(t)
	})

	t.Run("unreadable document is not overwritten", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return([]byte(`{broken`), nil).Once()
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		_, err := svc.Create(ctx, CreateInput{Message: "hi"})
		assert.ErrorIs(t, err, ErrPersistence)
		sink.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	})
}

func TestWishService_CreateIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	sink := &memSink{}
	opts := DefaultOptions(secret)
	// часы стоят на месте: все id приходятся на одну миллисекунду
	now := time.Now()
	opts.Now = fixedClock(now)
	svc := NewWishService(sink, opts, zap.NewNop().Sugar())

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		w, err := svc.Create(ctx, CreateInput{Message: "same tick"})
		require.NoError(t, err)
		assert.False(t, seen[w.ID], "duplicate id %d", w.ID)
		assert.GreaterOrEqual(t, w.ID, now.UnixMilli())
		seen[w.ID] = true
	}

	// id, уже занятый в документе другим процессом, тоже пропускается
	svc2 := NewWishService(sink, opts, zap.NewNop().Sugar())
	w, err := svc2.Create(ctx, CreateInput{Message: "another process"})
	require.NoError(t, err)
	assert.False(t, seen[w.ID])
}

func TestWishService_Reply(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	existing := []model.Wish{
		{ID: 10, Name: "A", Location: "X", Message: "first", Date: "2025-01-01T00:00:00.000Z"},
		{ID: 20, Name: "B", Location: "Y", Message: "second", Date: "2025-01-02T00:00:00.000Z"},
	}

	t.Run("wrong password regardless of id", func(t *testing.T) {
		sink := new(mockSink)
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		_, err := svc.Reply(ctx, ReplyInput{ID: 10, Reply: "thanks", Password: "nope"})
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = svc.Reply(ctx, ReplyInput{ID: 999, Reply: "thanks", Password: "nope"})
		assert.ErrorIs(t, err, ErrUnauthorized)
		// авторизация проверяется до валидации
		_, err = svc.Reply(ctx, ReplyInput{Password: ""})
		assert.ErrorIs(t, err, ErrUnauthorized)
		sink.AssertNotCalled(t, "Read", mock.Anything)
	})

	t.Run("empty configured secret never authorizes", func(t *testing.T) {
		sink := new(mockSink)
		svc := NewWishService(sink, DefaultOptions(""), zap.NewNop().Sugar())
		_, err := svc.Reply(ctx, ReplyInput{ID: 10, Reply: "x", Password: ""})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("missing id or reply", func(t *testing.T) {
		sink := new(mockSink)
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		_, err := svc.Reply(ctx, ReplyInput{Reply: "x", Password: secret})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = svc.Reply(ctx, ReplyInput{ID: 10, Password: secret})
		assert.ErrorIs(t, err, ErrValidation)
		sink.AssertNotCalled(t, "Read", mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return(encode(t, existing), nil).Once()
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		_, err := svc.Reply(ctx, ReplyInput{ID: 30, Reply: "x", Password: secret})
		assert.ErrorIs(t, err, ErrNotFound)
		sink.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	})

	t.Run("sets reply and replyDate", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return(encode(t, existing), nil).Once()
		var written []model.Wish
		sink.On("Write", mock.Anything, mock.MatchedBy(func(b []byte) bool {
			return json.Unmarshal(b, &written) == nil
		})).Return(nil).Once()

		opts := DefaultOptions(secret)
		opts.Now = fixedClock(now)
		svc := NewWishService(sink, opts, zap.NewNop().Sugar())

		w, err := svc.Reply(ctx, ReplyInput{ID: 20, Reply: "thanks", Password: secret})
		require.NoError(t, err)
		assert.Equal(t, "thanks", w.Reply)
		assert.Equal(t, "2025-06-01T12:00:00.000Z", w.ReplyDate)
		assert.Equal(t, "second", w.Message)

		// порядок сохранён, другая запись не тронута
		if assert.Len(t, written, 2) {
			assert.Equal(t, existing[0], written[0])
			assert.Equal(t, *w, written[1])
		}
	})

	t.Run("write failure", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return(encode(t, existing), nil).Once()
		sink.On("Write", mock.Anything, mock.Anything).Return(errors.New("io")).Once()
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		_, err := svc.Reply(ctx, ReplyInput{ID: 10, Reply: "x", Password: secret})
		assert.ErrorIs(t, err, ErrPersistence)
	})
}

func TestWishService_Remove(t *testing.T) {
	ctx := context.Background()
	existing := []model.Wish{{ID: 10, Message: "a"}, {ID: 20, Message: "b"}}

	t.Run("unauthorized", func(t *testing.T) {
		sink := new(mockSink)
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())
		assert.ErrorIs(t, svc.Remove(ctx, RemoveInput{ID: 10, Password: "bad"}), ErrUnauthorized)
		assert.ErrorIs(t, svc.Remove(ctx, RemoveInput{ID: 404, Password: "bad"}), ErrUnauthorized)
		sink.AssertNotCalled(t, "Read", mock.Anything)
	})

	t.Run("missing id", func(t *testing.T) {
		sink := new(mockSink)
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())
		assert.ErrorIs(t, svc.Remove(ctx, RemoveInput{Password: secret}), ErrValidation)
	})

	t.Run("not found leaves document untouched", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return(encode(t, existing), nil).Once()
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())
		assert.ErrorIs(t, svc.Remove(ctx, RemoveInput{ID: 30, Password: secret}), ErrNotFound)
		sink.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	})

	t.Run("removes every match", func(t *testing.T) {
		dup := append([]model.Wish{{ID: 20, Message: "dup"}}, existing...)
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return(encode(t, dup), nil).Once()
		var written []model.Wish
		sink.On("Write", mock.Anything, mock.MatchedBy(func(b []byte) bool {
			return json.Unmarshal(b, &written) == nil
		})).Return(nil).Once()
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())

		require.NoError(t, svc.Remove(ctx, RemoveInput{ID: 20, Password: secret}))
		if assert.Len(t, written, 1) {
			assert.Equal(t, int64(10), written[0].ID)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		sink := new(mockSink)
		sink.On("Read", mock.Anything).Return(encode(t, existing), nil).Once()
		sink.On("Write", mock.Anything, mock.Anything).Return(errors.New("io")).Once()
		svc := NewWishService(sink, DefaultOptions(secret), zap.NewNop().Sugar())
		assert.ErrorIs(t, svc.Remove(ctx, RemoveInput{ID: 10, Password: secret}), ErrPersistence)
	})
}

func TestWishService_Get(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemService(t)

	w, err := svc.Create(ctx, CreateInput{Message: "find me"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, *w, *got)

	_, err = svc.Get(ctx, w.ID+1000)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Сценарий целиком: пустой список → создание → ответ → неудачное удаление → удаление.
func TestWishService_Scenario(t *testing.T) {
	ctx := context.Background()
	svc, sink := newMemService(t)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	w, err := svc.Create(ctx, CreateInput{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", w.Name)
	assert.Equal(t, "Unknown", w.Location)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *w, list[0])

	replied, err := svc.Reply(ctx, ReplyInput{ID: w.ID, Reply: "thanks", Password: secret})
	require.NoError(t, err)
	assert.Equal(t, "thanks", replied.Reply)
	assert.NotEmpty(t, replied.ReplyDate)

	err = svc.Remove(ctx, RemoveInput{ID: w.ID, Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	list, _ = svc.List(ctx)
	assert.Len(t, list, 1)

	// новые записи идут первыми
	second, err := svc.Create(ctx, CreateInput{Name: "Eve", Location: "Paris", Message: "second"})
	require.NoError(t, err)
	list, _ = svc.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, svc.Remove(ctx, RemoveInput{ID: w.ID, Password: secret}))
	list, _ = svc.List(ctx)
	for _, it := range list {
		assert.NotEqual(t, w.ID, it.ID)
	}

	// повторное удаление — уже не найдено
	assert.ErrorIs(t, svc.Remove(ctx, RemoveInput{ID: w.ID, Password: secret}), ErrNotFound)

	// документ хранится массивом с отступами
	assert.Contains(t, string(sink.data), "\n  {")
}

func TestWishService_SerializedWritesKeepEveryCreate(t *testing.T) {
	ctx := context.Background()
	svc, sink := newMemService(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, CreateInput{Message: "concurrent"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, n)
	assert.Equal(t, n, sink.writes)
}

func TestWishService_ObserverReceivesOutcomes(t *testing.T) {
	ctx := context.Background()
	obs := &countingObserver{}
	opts := DefaultOptions(secret)
	opts.Observer = obs
	svc := NewWishService(&memSink{}, opts, zap.NewNop().Sugar())

	_, _ = svc.List(ctx)
	_, _ = svc.Create(ctx, CreateInput{})
	_, _ = svc.Create(ctx, CreateInput{Message: "ok"})
	_ = svc.Remove(ctx, RemoveInput{ID: 1, Password: "bad"})
	_ = svc.Remove(ctx, RemoveInput{ID: 1, Password: secret})

	assert.Equal(t, 1, obs.seen["list:ok"])
	assert.Equal(t, 1, obs.seen["create:validation"])
	assert.Equal(t, 1, obs.seen["create:ok"])
	assert.Equal(t, 1, obs.seen["remove:unauthorized"])
	assert.Equal(t, 1, obs.seen["remove:not_found"])
}

func TestWishService_AuthorizeIsExactEquality(t *testing.T) {
	svc, _ := newMemService(t)

	assert.NoError(t, svc.authorize(secret))
	for _, pw := range []string{"", "s3cre", secret + " ", " " + secret, "S3CRET", secret + secret} {
		assert.ErrorIs(t, svc.authorize(pw), ErrUnauthorized, "password %q", pw)
	}

	// пустой секрет не совпадает даже с пустым паролем
	open := NewWishService(&memSink{}, DefaultOptions(""), zap.NewNop().Sugar())
	assert.ErrorIs(t, open.authorize(""), ErrUnauthorized)
}
