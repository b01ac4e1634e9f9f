package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/internal/domain/repository"
	"outdoormatch/pkg/errors"
)

// MemoryStore keeps users, communities and chats in process. It backs the
// development server and the use-case tests. Every read returns a copy.
type MemoryStore struct {
	mu          sync.Mutex
	users       map[string]*entity.User
	communities map[string]*entity.Community
	chats       map[string]*entity.Chat
	watchers    map[string]map[chan struct{}]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]*entity.User),
		communities: make(map[string]*entity.Community),
		chats:       make(map[string]*entity.Chat),
		watchers:    make(map[string]map[chan struct{}]struct{}),
	}
}

func (s *MemoryStore) Users() repository.UserRepository {
	return &memoryUserRepository{store: s}
}

func (s *MemoryStore) Communities() repository.CommunityRepository {
	return &memoryCommunityRepository{store: s}
}

func (s *MemoryStore) Chats() repository.ChatRepository {
	return &memoryChatRepository{store: s}
}

func userKey(id string) string { return usersCollection + "/" + id }
func chatKey(id string) string { return chatsCollection + "/" + id }

func (s *MemoryStore) subscribe(key string) (chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	if s.watchers[key] == nil {
		s.watchers[key] = make(map[chan struct{}]struct{})
	}
	s.watchers[key][ch] = struct{}{}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		delete(s.watchers[key], ch)
		if len(s.watchers[key]) == 0 {
			delete(s.watchers, key)
		}
		s.mu.Unlock()
	}
}

// notify must be called with s.mu held. A watcher that has not consumed the
// previous signal is already due to re-read, so the send never blocks.
func (s *MemoryStore) notify(key string) {
	for ch := range s.watchers[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func watchLoop(ctx context.Context, changed <-chan struct{}, emit func() error) error {
	for {
		if err := emit(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
		}
	}
}

func copyStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Interests = copyStrings(u.Interests)
	c.Communities = copyStrings(u.Communities)
	c.CheckedMatches = copyStrings(u.CheckedMatches)
	c.Chats = copyStrings(u.Chats)
	return &c
}

func cloneCommunity(in *entity.Community) *entity.Community {
	c := *in
	c.Members = copyStrings(in.Members)
	c.ActiveMembers = make(map[string][]string, len(in.ActiveMembers))
	for day, ids := range in.ActiveMembers {
		c.ActiveMembers[day] = copyStrings(ids)
	}
	return &c
}

func cloneChat(in *entity.Chat) *entity.Chat {
	c := *in
	c.Participants = copyStrings(in.Participants)
	c.ParticipantsData = make(map[string]entity.ParticipantSnapshot, len(in.ParticipantsData))
	for id, p := range in.ParticipantsData {
		c.ParticipantsData[id] = p
	}
	c.Messages = make([]entity.Message, len(in.Messages))
	copy(c.Messages, in.Messages)
	if in.LastMessage != nil {
		last := *in.LastMessage
		c.LastMessage = &last
	}
	return &c
}

type memoryUserRepository struct {
	store *MemoryStore
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return errors.Conflict("User already exists")
	}
	s.users[user.ID] = cloneUser(user)
	s.notify(userKey(user.ID))
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(u), nil
}

func (r *memoryUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

func (r *memoryUserRepository) RecordCheck(ctx context.Context, actorID, targetID string) (*repository.CheckResult, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, ok := s.users[actorID]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	target, ok := s.users[targetID]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}

	result := &repository.CheckResult{
		AlreadyChecked: actor.HasChecked(targetID),
		Mutual:         target.HasChecked(actorID),
	}
	if !result.AlreadyChecked {
		actor.CheckedMatches = entity.AddUnique(actor.CheckedMatches, targetID)
		s.notify(userKey(actorID))
	}
	result.Actor = cloneUser(actor)
	result.Target = cloneUser(target)
	return result, nil
}

func (r *memoryUserRepository) update(userID string, fn func(u *entity.User)) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	fn(u)
	s.notify(userKey(userID))
	return nil
}

func (r *memoryUserRepository) AddChat(ctx context.Context, userID, chatID string) error {
	return r.update(userID, func(u *entity.User) {
		u.Chats = entity.AddUnique(u.Chats, chatID)
	})
}

func (r *memoryUserRepository) AddCommunity(ctx context.Context, userID, communityID string) error {
	return r.update(userID, func(u *entity.User) {
		u.Communities = entity.AddUnique(u.Communities, communityID)
	})
}

func (r *memoryUserRepository) UpdateNotes(ctx context.Context, userID, notes string) error {
	return r.update(userID, func(u *entity.User) {
		u.Notes = notes
	})
}

func (r *memoryUserRepository) UpdatePhoto(ctx context.Context, userID, photoURL string) error {
	return r.update(userID, func(u *entity.User) {
		u.PhotoURL = photoURL
	})
}

func (r *memoryUserRepository) Watch(ctx context.Context, userID string, fn func(*entity.User) error) error {
	changed, cancel := r.store.subscribe(userKey(userID))
	defer cancel()

	return watchLoop(ctx, changed, func() error {
		u, err := r.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		return fn(u)
	})
}

type memoryCommunityRepository struct {
	store *MemoryStore
}

func (r *memoryCommunityRepository) Create(ctx context.Context, community *entity.Community) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if community.ID == "" {
		community.ID = uuid.New().String()
	}
	if _, ok := s.communities[community.ID]; ok {
		return errors.Conflict("Community already exists")
	}
	if community.Members == nil {
		community.Members = []string{}
	}
	if community.ActiveMembers == nil {
		community.ActiveMembers = map[string][]string{}
	}
	s.communities[community.ID] = cloneCommunity(community)
	return nil
}

func (r *memoryCommunityRepository) GetByID(ctx context.Context, id string) (*entity.Community, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[id]
	if !ok {
		return nil, errors.NotFound("Community", nil)
	}
	return cloneCommunity(c), nil
}

func (r *memoryCommunityRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Community, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	communities := make([]*entity.Community, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.communities[id]; ok {
			communities = append(communities, cloneCommunity(c))
		}
	}
	return communities, nil
}

func (r *memoryCommunityRepository) List(ctx context.Context) ([]*entity.Community, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	communities := make([]*entity.Community, 0, len(s.communities))
	for _, c := range s.communities {
		communities = append(communities, cloneCommunity(c))
	}
	sort.Slice(communities, func(i, j int) bool {
		return communities[i].Name < communities[j].Name
	})
	return communities, nil
}

func (r *memoryCommunityRepository) update(communityID string, fn func(c *entity.Community)) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.communities[communityID]
	if !ok {
		return errors.NotFound("Community", nil)
	}
	fn(c)
	return nil
}

func (r *memoryCommunityRepository) AddMember(ctx context.Context, communityID, userID string) error {
	return r.update(communityID, func(c *entity.Community) {
		c.Members = entity.AddUnique(c.Members, userID)
	})
}

func (r *memoryCommunityRepository) AddActiveMember(ctx context.Context, communityID string, day int, userID string) error {
	key := entity.DayKey(day)
	return r.update(communityID, func(c *entity.Community) {
		if c.ActiveMembers == nil {
			c.ActiveMembers = map[string][]string{}
		}
		c.ActiveMembers[key] = entity.AddUnique(c.ActiveMembers[key], userID)
	})
}

func (r *memoryCommunityRepository) RemoveActiveMember(ctx context.Context, communityID string, day int, userID string) error {
	key := entity.DayKey(day)
	return r.update(communityID, func(c *entity.Community) {
		if ids, ok := c.ActiveMembers[key]; ok {
			c.ActiveMembers[key] = entity.RemoveValue(ids, userID)
		}
	})
}

type memoryChatRepository struct {
	store *MemoryStore
}

func (r *memoryChatRepository) CreateIfAbsent(ctx context.Context, chat *entity.Chat) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chats[chat.ID]; ok {
		return false, nil
	}
	s.chats[chat.ID] = cloneChat(chat)
	s.notify(chatKey(chat.ID))
	return true, nil
}

func (r *memoryChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return cloneChat(c), nil
}

func (r *memoryChatRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Chat, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	chats := make([]*entity.Chat, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.chats[id]; ok {
			chats = append(chats, cloneChat(c))
		}
	}
	return chats, nil
}

func (r *memoryChatRepository) AppendMessage(ctx context.Context, chatID string, message entity.Message) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[chatID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	for _, m := range c.Messages {
		if m == message {
			return nil
		}
	}
	c.Messages = append(c.Messages, message)
	text := message.Text
	c.LastMessage = &text
	c.LastMessageTime = message.Timestamp

	s.notify(chatKey(chatID))
	return nil
}

func (r *memoryChatRepository) Watch(ctx context.Context, chatID string, fn func(*entity.Chat) error) error {
	changed, cancel := r.store.subscribe(chatKey(chatID))
	defer cancel()

	return watchLoop(ctx, changed, func() error {
		c, err := r.GetByID(ctx, chatID)
		if err != nil {
			return err
		}
		return fn(c)
	})
}
