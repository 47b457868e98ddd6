package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubNotificationRepo struct {
	byID      map[string]*domain.Notification
	createErr error
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{byID: make(map[string]*domain.Notification)}
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *n
	r.byID[n.ID] = &clone
	return nil
}

func (r *stubNotificationRepo) FindByID(_ context.Context, id string) (*domain.Notification, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	clone := *n
	return &clone, nil
}

func (r *stubNotificationRepo) FindByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0)
	for _, n := range r.byID {
		if n.UtilisateurID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.byID {
		if n.UtilisateurID == userID && n.Statut == domain.NotificationNonLue {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) Update(_ context.Context, n *domain.Notification) error {
	if _, ok := r.byID[n.ID]; !ok {
		return domain.ErrNotificationNotFound
	}
	clone := *n
	r.byID[n.ID] = &clone
	return nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	now := time.Now().UTC()
	for _, n := range r.byID {
		if n.UtilisateurID == userID {
			n.MarquerLue(now)
		}
	}
	return nil
}

func (r *stubNotificationRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotificationNotFound
	}
	delete(r.byID, id)
	return nil
}

// stubUnreadCache records interactions; entries expire only on Invalidate.
type stubUnreadCache struct {
	counts      map[string]int64
	invalidated []string
	getErr      error
}

func newStubUnreadCache() *stubUnreadCache {
	return &stubUnreadCache{counts: make(map[string]int64)}
}

func (c *stubUnreadCache) Get(_ context.Context, userID string) (int64, bool, error) {
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	n, ok := c.counts[userID]
	return n, ok, nil
}

func (c *stubUnreadCache) Set(_ context.Context, userID string, count int64) error {
	c.counts[userID] = count
	return nil
}

func (c *stubUnreadCache) Invalidate(_ context.Context, userID string) error {
	delete(c.counts, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newNotificationFixture() (*NotificationService, *stubNotificationRepo, *stubUnreadCache, *stubDirectory) {
	repo := newStubNotificationRepo()
	cache := newStubUnreadCache()
	directory := &stubDirectory{}
	svc := NewNotificationService(repo, cache, directory, discardLogger)
	return svc, repo, cache, directory
}

func notifInput(target string) ports.SendNotificationInput {
	return ports.SendNotificationInput{
		DestinataireID: target,
		Type:           domain.NotifInfo,
		Titre:          "Info",
		Message:        "dossier mis à jour",
	}
}

// ---------------------------------------------------------------------------
// Send tests
// ---------------------------------------------------------------------------

func TestNotificationService_Send_Success(t *testing.T) {
	svc, repo, cache, _ := newNotificationFixture()
	chef := &domain.User{ID: "chef1", Role: domain.RoleChefJuridique}

	n, err := svc.Send(context.Background(), chef, notifInput("agent1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Statut != domain.NotificationNonLue {
		t.Errorf("new notification must be NON_LUE, got %q", n.Statut)
	}
	if n.DateLecture != nil {
		t.Error("unread notification must have no read timestamp")
	}
	if len(repo.byID) != 1 {
		t.Errorf("expected 1 stored notification, got %d", len(repo.byID))
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "agent1" {
		t.Errorf("recipient's unread cache must be invalidated, got %v", cache.invalidated)
	}
}

func TestNotificationService_Send_PermissionChecks(t *testing.T) {
	svc, _, _, _ := newNotificationFixture()
	ctx := context.Background()

	if _, err := svc.Send(ctx, nil, notifInput("agent1")); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("anonymous: want ErrNotAuthenticated, got %v", err)
	}

	chef := &domain.User{ID: "chef1", Role: domain.RoleChefJuridique}
	if _, err := svc.Send(ctx, chef, notifInput("chef1")); !errors.Is(err, domain.ErrSelfNotification) {
		t.Errorf("self send: want ErrSelfNotification, got %v", err)
	}

	agent := &domain.User{ID: "agent1", Role: domain.RoleAgentFinance}
	in := notifInput("agent2")
	in.Type = domain.NotifSysteme
	if _, err := svc.Send(ctx, agent, in); !errors.Is(err, domain.ErrTypeNotAllowed) {
		t.Errorf("type outside matrix: want ErrTypeNotAllowed, got %v", err)
	}
}

func TestNotificationService_SendGroupe_SkipsSelf(t *testing.T) {
	svc, repo, _, _ := newNotificationFixture()
	chef := &domain.User{ID: "chef1", Role: domain.RoleChefEnquete}

	sent, err := svc.SendGroupe(context.Background(), chef, notifInput(""), []string{"a1", "chef1", "a2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 2 || len(repo.byID) != 2 {
		t.Errorf("self must be skipped: sent=%d stored=%d", len(sent), len(repo.byID))
	}
}

func TestNotificationService_SendAgentsDuChef(t *testing.T) {
	svc, repo, _, directory := newNotificationFixture()
	directory.result = &ports.AgentsResult{
		Agents: []domain.User{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}},
		Source: ports.SourceFallback,
	}
	chef := &domain.User{ID: "chef1", Role: domain.RoleChefRecouvrement}

	sent, err := svc.SendAgentsDuChef(context.Background(), chef, notifInput(""), "chef1")
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 3 || len(repo.byID) != 3 {
		t.Errorf("want one notification per agent, sent=%d", len(sent))
	}
}

// ---------------------------------------------------------------------------
// Unread count tests
// ---------------------------------------------------------------------------

func TestNotificationService_UnreadCount_MissThenHit(t *testing.T) {
	svc, _, cache, _ := newNotificationFixture()
	ctx := context.Background()
	admin := &domain.User{ID: "admin", Role: domain.RoleSuperAdmin}

	for i := 0; i < 3; i++ {
		if _, err := svc.Send(ctx, admin, notifInput("agent1")); err != nil {
			t.Fatal(err)
		}
	}

	count, err := svc.UnreadCount(ctx, "agent1")
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("unread: want 3, got %d", count)
	}
	if cached, ok := cache.counts["agent1"]; !ok || cached != 3 {
		t.Errorf("count must be cached after miss, got %v ok=%v", cached, ok)
	}

	// cache now authoritative until next invalidation
	cache.counts["agent1"] = 99
	count, _ = svc.UnreadCount(ctx, "agent1")
	if count != 99 {
		t.Errorf("hit must serve from cache, got %d", count)
	}
}

func TestNotificationService_UnreadCount_CacheFailureFallsBack(t *testing.T) {
	svc, _, cache, _ := newNotificationFixture()
	ctx := context.Background()
	admin := &domain.User{ID: "admin", Role: domain.RoleSuperAdmin}
	if _, err := svc.Send(ctx, admin, notifInput("agent1")); err != nil {
		t.Fatal(err)
	}

	cache.getErr = errors.New("redis down")
	count, err := svc.UnreadCount(ctx, "agent1")
	if err != nil {
		t.Fatalf("cache failure must not be fatal: %v", err)
	}
	if count != 1 {
		t.Errorf("fallback count: want 1, got %d", count)
	}
}

// ---------------------------------------------------------------------------
// Read-state tests
// ---------------------------------------------------------------------------

func TestNotificationService_MarkRead(t *testing.T) {
	svc, _, _, _ := newNotificationFixture()
	ctx := context.Background()
	admin := &domain.User{ID: "admin", Role: domain.RoleSuperAdmin}

	n, err := svc.Send(ctx, admin, notifInput("agent1"))
	if err != nil {
		t.Fatal(err)
	}

	read, err := svc.MarkRead(ctx, n.ID, "agent1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if read.Statut != domain.NotificationLue || read.DateLecture == nil {
		t.Errorf("read state invariant broken: %+v", read)
	}

	count, _ := svc.UnreadCount(ctx, "agent1")
	if count != 0 {
		t.Errorf("unread after read: want 0, got %d", count)
	}
}

func TestNotificationService_MarkRead_OtherUser(t *testing.T) {
	svc, _, _, _ := newNotificationFixture()
	ctx := context.Background()
	admin := &domain.User{ID: "admin", Role: domain.RoleSuperAdmin}

	n, err := svc.Send(ctx, admin, notifInput("agent1"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.MarkRead(ctx, n.ID, "intrus"); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Errorf("foreign notification must read as not found, got %v", err)
	}
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, _, _, _ := newNotificationFixture()
	ctx := context.Background()
	admin := &domain.User{ID: "admin", Role: domain.RoleSuperAdmin}

	for i := 0; i < 2; i++ {
		if _, err := svc.Send(ctx, admin, notifInput("agent1")); err != nil {
			t.Fatal(err)
		}
	}

	if err := svc.MarkAllRead(ctx, "agent1"); err != nil {
		t.Fatal(err)
	}

	list, _ := svc.ForUser(ctx, "agent1")
	for _, n := range list {
		if n.Statut != domain.NotificationLue || n.DateLecture == nil {
			t.Errorf("all must be read with a timestamp: %+v", n)
		}
	}
}
