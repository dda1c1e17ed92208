package service

import (
	"Wishwall/internal/model"
	"Wishwall/internal/repo"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// dateLayout — ISO-8601 в UTC с миллисекундами (как Date.toISOString в браузере).
const dateLayout = "2006-01-02T15:04:05.000Z"

// ReadPolicyFailOpen — политика чтения списка по умолчанию: нечитаемый или
// повреждённый документ отдаётся как пустой список, а не как ошибка.
const ReadPolicyFailOpen = true

// OperationObserver получает исход каждой операции (метрики).
type OperationObserver interface {
	ObserveOperation(operation, outcome string)
}

// Options — явная конфигурация сервиса. Сервис не читает окружение сам.
type Options struct {
	// AdminPassword сравнивается с паролем из запроса как есть. Пустой пароль не пускает никого.
	AdminPassword string
	// FailOpenReads: ошибка чтения/разбора документа в List превращается в пустой список.
	FailOpenReads bool
	// SerializeWrites прогоняет Create/Reply/Remove через один мьютекс процесса.
	// Между процессами потеря обновлений по-прежнему возможна.
	SerializeWrites bool
	// Now — источник времени; nil означает time.Now.
	Now func() time.Time
	// Observer — необязательный получатель исходов операций.
	Observer OperationObserver
}

// DefaultOptions возвращает настройки по умолчанию для заданного пароля администратора.
func DefaultOptions(adminPassword string) Options {
	return Options{
		AdminPassword:   adminPassword,
		FailOpenReads:   ReadPolicyFailOpen,
		SerializeWrites: true,
	}
}

// CreateInput — данные нового пожелания.
type CreateInput struct {
	Name     string
	Location string
	Message  string `validate:"required"`
}

// ReplyInput — ответ администратора на пожелание.
type ReplyInput struct {
	ID       int64  `validate:"required"`
	Reply    string `validate:"required"`
	Password string
}

// RemoveInput — удаление пожелания администратором.
type RemoveInput struct {
	ID       int64 `validate:"required"`
	Password string
}

// WishService инкапсулирует операции над документом с пожеланиями.
// Каждая операция читает документ целиком, изменяющие — записывают его целиком обратно.
type WishService struct {
	sink   repo.DocumentSink
	opts   Options
	logger *zap.SugaredLogger

	writeMu sync.Mutex

	idMu   sync.Mutex
	lastID int64
}

// NewWishService создаёт сервис поверх хранилища документа.
func NewWishService(sink repo.DocumentSink, opts Options, logger *zap.SugaredLogger) *WishService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &WishService{sink: sink, opts: opts, logger: logger}
}

// List возвращает все пожелания, новые первыми.
func (s *WishService) List(ctx context.Context) (wishes []model.Wish, err error) {
	defer s.observe("list", &err)

	wishes, err = s.load(ctx)
	if err != nil {
		if s.opts.FailOpenReads {
			s.logger.Warnw("List: document unreadable, serving empty list", "error", err)
			return []model.Wish{}, nil
		}
		return nil, err
	}
	return wishes, nil
}

// Get возвращает одно пожелание по id.
func (s *WishService) Get(ctx context.Context, id int64) (w *model.Wish, err error) {
	defer s.observe("get", &err)

	wishes, err := s.load(ctx)
	if err != nil {
		if s.opts.FailOpenReads {
			s.logger.Warnw("Get: document unreadable", "id", id, "error", err)
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, err
	}
	for i := range wishes {
		if wishes[i].ID == id {
			found := wishes[i]
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Create добавляет пожелание в начало документа.
func (s *WishService) Create(ctx context.Context, in CreateInput) (w *model.Wish, err error) {
	defer s.observe("create", &err)

	if err := validateInput(in); err != nil {
		return nil, err
	}

	s.lockWrites()
	defer s.unlockWrites()

	wishes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.opts.Now()
	created := model.Wish{
		ID:       s.nextID(now, wishes),
		Name:     in.Name,
		Location: in.Location,
		Message:  in.Message,
		Date:     formatDate(now),
	}
	if created.Name == "" {
		created.Name = model.DefaultName
	}
	if created.Location == "" {
		created.Location = model.DefaultLocation
	}

	updated := make([]model.Wish, 0, len(wishes)+1)
	updated = append(updated, created)
	updated = append(updated, wishes...)
	if err := s.save(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Infow("wish created", "id", created.ID, "name", created.Name)
	return &created, nil
}

// Reply сохраняет ответ администратора на пожелание.
func (s *WishService) Reply(ctx context.Context, in ReplyInput) (w *model.Wish, err error) {
	defer s.observe("reply", &err)

	if err := s.authorize(in.Password); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	s.lockWrites()
	defer s.unlockWrites()

	wishes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range wishes {
		if wishes[i].ID == in.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, in.ID)
	}

	wishes[idx].Reply = in.Reply
	wishes[idx].ReplyDate = formatDate(s.opts.Now())
	if err := s.save(ctx, wishes); err != nil {
		return nil, err
	}

	s.logger.Infow("wish replied", "id", in.ID)
	replied := wishes[idx]
	return &replied, nil
}

// Remove удаляет все пожелания с указанным id (ожидается не более одного).
func (s *WishService) Remove(ctx context.Context, in RemoveInput) (err error) {
	defer s.observe("remove", &err)

	if err := s.authorize(in.Password); err != nil {
		return err
	}
	if err := validateInput(in); err != nil {
		return err
	}

	s.lockWrites()
	defer s.unlockWrites()

	wishes, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]model.Wish, 0, len(wishes))
	for _, w := range wishes {
		if w.ID != in.ID {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(wishes) {
		return fmt.Errorf("%w: id %d", ErrNotFound, in.ID)
	}

	if err := s.save(ctx, kept); err != nil {
		return err
	}

	s.logger.Infow("wish removed", "id", in.ID)
	return nil
}

// load читает и разбирает документ. Отсутствие документа — пустой список.
func (s *WishService) load(ctx context.Context) ([]model.Wish, error) {
	data, err := s.sink.Read(ctx)
	if errors.Is(err, repo.ErrDocumentAbsent) {
		return []model.Wish{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read document: %v", ErrPersistence, err)
	}

	var wishes []model.Wish
	if err := json.Unmarshal(data, &wishes); err != nil {
		return nil, fmt.Errorf("%w: parse document: %v", ErrPersistence, err)
	}
	if wishes == nil {
		wishes = []model.Wish{}
	}
	return wishes, nil
}

// save сериализует документ целиком и перезаписывает его в хранилище.
func (s *WishService) save(ctx context.Context, wishes []model.Wish) error {
	data, err := json.MarshalIndent(wishes, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrPersistence, err)
	}
	if err := s.sink.Write(ctx, data); err != nil {
		s.logger.Errorw("failed to write document", "error", err)
		return fmt.Errorf("%w: write document: %v", ErrPersistence, err)
	}
	return nil
}

func (s *WishService) authorize(password string) error {
	secret := s.opts.AdminPassword
	if secret == "" || subtle.ConstantTimeCompare([]byte(password), []byte(secret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// nextID выдаёт миллисекунды текущего времени, сдвигая значение вперёд,
// если оно уже выдано этим процессом или занято в документе.
func (s *WishService) nextID(now time.Time, existing []model.Wish) int64 {
	taken := make(map[int64]struct{}, len(existing))
	for _, w := range existing {
		taken[w.ID] = struct{}{}
	}

	s.idMu.Lock()
	defer s.idMu.Unlock()

	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for {
		if _, ok := taken[id]; !ok {
			break
		}
		id++
	}
	s.lastID = id
	return id
}

func (s *WishService) lockWrites() {
	if s.opts.SerializeWrites {
		s.writeMu.Lock()
	}
}

func (s *WishService) unlockWrites() {
	if s.opts.SerializeWrites {
		s.writeMu.Unlock()
	}
}

func (s *WishService) observe(operation string, err *error) {
	if s.opts.Observer != nil {
		s.opts.Observer.ObserveOperation(operation, outcome(*err))
	}
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
