package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"user-registry/internal/domain/entity"
	repo "user-registry/internal/domain/repository"
	"user-registry/internal/domain/valueobject"
	"user-registry/pkg/events"
	"user-registry/pkg/helpers"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

const userCacheTTL = 5 * time.Minute

// EventPublisher publishes lifecycle events to the user events queue.
// Satisfied by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserService is the lifecycle service consumed by the HTTP layer.
type UserService interface {
	Add(ctx context.Context, dto UserDTO) (int, error)
	Update(ctx context.Context, dto UserDTO) error
	Delete(ctx context.Context, dto UserDTO) error
	Restore(ctx context.Context, dto UserDTO) error
	GetByID(ctx context.Context, id int, includeDeleted bool) (*UserDTO, error)
	GetAll(ctx context.Context, includeDeleted bool) ([]UserDTO, error)
	GetByEmail(ctx context.Context, email string) (*UserDTO, error)
	GetOnlyDeleted(ctx context.Context) ([]UserDTO, error)
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// Service orchestrates the user lifecycle against the repository. The
// repository is required; every other collaborator is optional and
// nil-guarded, so side effects degrade to no-ops.
type Service struct {
	Repo         repo.UserRepository
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Events       EventPublisher
}

func NewService(r repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, pub EventPublisher) *Service {
	return &Service{
		Repo:         r,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Events:       pub,
	}
}

func cacheKey(id int, includeDeleted bool) string {
	return fmt.Sprintf("user:%d:%t", id, includeDeleted)
}

// Add registers a new user. The email must not belong to any existing
// record, deleted or not; the assigned id is always positive.
func (s *Service) Add(ctx context.Context, dto UserDTO) (int, error) {
	existing, err := s.Repo.GetByEmail(strings.ToLower(dto.Email))
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return 0, err
	}
	if existing != nil {
		return 0, ErrEmailAlreadyRegistered
	}

	email, err := valueobject.NewEmail(dto.Email)
	if err != nil {
		return 0, err
	}
	u := entity.NewUser(dto.FullName, email)

	id, err := s.Repo.Add(u)
	if err != nil {
		return 0, err
	}
	u.ID = id
	s.afterWrite(ctx, u, events.UserCreated)
	return id, nil
}

// Update applies the incoming full name and email to an existing,
// non-deleted record. A write is skipped entirely when both values are
// already current. The conflict rule blocks only when the email belongs
// to a record whose full name also matches the incoming one; this
// narrow check mirrors the legacy behavior on purpose.
func (s *Service) Update(ctx context.Context, dto UserDTO) error {
	u, err := s.Repo.GetByID(dto.ID, false)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	normalized := strings.ToLower(dto.Email)
	byEmail, err := s.Repo.GetByEmail(normalized)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	if byEmail != nil && dto.FullName == byEmail.FullName {
		return ErrEmailAlreadyRegistered
	}

	if dto.FullName == u.FullName && u.Email.Address() == normalized {
		return nil
	}

	email, err := valueobject.NewEmail(dto.Email)
	if err != nil {
		return err
	}
	u.ModifyUser(dto.FullName, email)

	if err := s.Repo.Update(u); err != nil {
		return err
	}
	s.afterWrite(ctx, u, events.UserUpdated)
	return nil
}

// Delete soft-deletes: the flag flips and the row is updated, never
// physically removed.
func (s *Service) Delete(ctx context.Context, dto UserDTO) error {
	u, err := s.Repo.GetByID(dto.ID, false)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	u.Delete()
	if err := s.Repo.Update(u); err != nil {
		return err
	}
	s.afterWrite(ctx, u, events.UserDeleted)
	return nil
}

// Restore flips the deleted flag back; the lookup includes deleted rows.
func (s *Service) Restore(ctx context.Context, dto UserDTO) error {
	u, err := s.Repo.GetByID(dto.ID, true)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	u.Restore()
	if err := s.Repo.Update(u); err != nil {
		return err
	}
	s.afterWrite(ctx, u, events.UserRestored)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int, includeDeleted bool) (*UserDTO, error) {
	key := cacheKey(id, includeDeleted)
	if s.Redis != nil {
		var cached UserDTO
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	u, err := s.Repo.GetByID(id, includeDeleted)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	dto := ToUserDTO(u)
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, dto, userCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("redis set failed")
		}
	}
	return dto, nil
}

func (s *Service) GetAll(ctx context.Context, includeDeleted bool) ([]UserDTO, error) {
	users, err := s.Repo.GetAll(includeDeleted)
	if err != nil {
		return nil, err
	}
	return ToUserDTOs(users), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	u, err := s.Repo.GetByEmail(email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToUserDTO(u), nil
}

func (s *Service) GetOnlyDeleted(ctx context.Context) ([]UserDTO, error) {
	users, err := s.Repo.GetOnlyDeleted()
	if err != nil {
		return nil, err
	}
	return ToUserDTOs(users), nil
}

// Search performs a multi_match query over full name and email in the
// users index.
func (s *Service) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "fullName"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// afterWrite runs the best-effort side effects of a successful write:
// cache invalidation, search index refresh, event publication. Failures
// are logged and never surface to the caller.
func (s *Service) afterWrite(ctx context.Context, u *entity.User, eventType string) {
	if s.Redis != nil {
		keys := []string{cacheKey(u.ID, true), cacheKey(u.ID, false)}
		if err := s.Redis.Del(ctx, keys...).Err(); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("cache invalidation failed")
		}
	}
	if err := s.indexUser(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
	if s.Events != nil {
		ev := events.UserEvent{
			Type:       eventType,
			UserID:     u.ID,
			FullName:   u.FullName,
			Email:      u.Email.Address(),
			OccurredAt: time.Now().UTC(),
		}
		if err := s.Events.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("type", eventType).Warn("event publish failed")
		}
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":        u.ID,
		"fullName":  u.FullName,
		"email":     u.Email.Address(),
		"isDeleted": u.IsDeleted,
		"createdAt": u.CreatedAt.Format(time.RFC3339Nano),
	}
	if u.LastModifiedAt != nil {
		doc["lastModifiedAt"] = u.LastModifiedAt.Format(time.RFC3339Nano)
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESUsersIndex,
		DocumentID: fmt.Sprint(u.ID),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index response: %s", res.Status())
	}
	return nil
}

var _ UserService = (*Service)(nil)
