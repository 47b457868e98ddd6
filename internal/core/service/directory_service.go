package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
	"github.com/carthage-creance/recovery-api/internal/core/ports"
)

// creatorFieldNames are the legacy document fields under which the creating
// chef's id has been observed. The backend never standardised the name, so
// every variant is checked.
var creatorFieldNames = []string{"chefCreateurId", "chefCreateur", "chefId", "createdBy", "idChef"}

// DirectoryService resolves which agents belong to a chef, using a
// chef-scoped lookup first and a full-directory scan as fallback.
type DirectoryService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewDirectoryService(users ports.UserRepository, logger zerolog.Logger) *DirectoryService {
	return &DirectoryService{users: users, logger: logger}
}

func (s *DirectoryService) AllUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}

// AgentsForChef resolves the agents created by the given chef.
//
// Primary path: the chef-scoped lookup, defensively re-filtered by creator
// id (the backend has been seen returning unrelated rows). When the primary
// path errors or yields nothing, the fallback scans the full directory,
// keeps users holding an agent role the chef may see, and applies the same
// creator filter. Both paths coerce ids before comparison since documents
// mix string and numeric ids.
func (s *DirectoryService) AgentsForChef(ctx context.Context, chefID string) (*ports.AgentsResult, error) {
	if strings.TrimSpace(chefID) == "" {
		return nil, domain.ErrChefUnresolved
	}

	chef, err := s.users.FindByID(ctx, chefID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrChefUnresolved
		}
		return nil, domain.ErrDirectoryUnavailable
	}

	primary, err := s.users.FindAgentsByChef(ctx, chefID)
	if err != nil {
		s.logger.Warn().Err(err).Str("chef_id", chefID).Msg("chef-scoped lookup failed, falling back to full scan")
	} else {
		agents := filterByCreator(primary, chefID)
		if len(agents) > 0 {
			s.logger.Debug().Str("chef_id", chefID).Int("count", len(agents)).Msg("agents resolved via primary path")
			return &ports.AgentsResult{Agents: agents, Source: ports.SourcePrimary}, nil
		}
		s.logger.Debug().Str("chef_id", chefID).Msg("primary path empty, falling back to full scan")
	}

	all, err := s.users.FindAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("chef_id", chefID).Msg("directory scan failed")
		return nil, domain.ErrDirectoryUnavailable
	}

	visible := chef.Role.AgentRoles()
	candidates := make([]domain.User, 0)
	for _, u := range all {
		for _, r := range visible {
			if u.Role == r {
				candidates = append(candidates, u)
				break
			}
		}
	}

	agents := filterByCreator(candidates, chefID)
	if len(agents) == 0 {
		return nil, domain.ErrNoAgents
	}

	s.logger.Info().Str("chef_id", chefID).Int("count", len(agents)).Msg("agents resolved via fallback scan")
	return &ports.AgentsResult{Agents: agents, Source: ports.SourceFallback}, nil
}

// filterByCreator keeps the users whose creator-chef id matches chefID,
// reading the id from the typed field or any known legacy variant.
func filterByCreator(users []domain.User, chefID string) []domain.User {
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if sameID(creatorChefID(&u), chefID) {
			out = append(out, u)
		}
	}
	return out
}

// creatorChefID extracts the creating chef's id from a user record. The
// typed field wins; otherwise the legacy field names are tried in order.
func creatorChefID(u *domain.User) string {
	if u.ChefCreateurID != "" {
		return u.ChefCreateurID
	}
	for _, name := range creatorFieldNames {
		if raw, ok := u.Extra[name]; ok {
			if id := coerceID(raw); id != "" {
				return id
			}
		}
	}
	return ""
}

// coerceID normalises a raw id value to a canonical string. Numeric values
// (and numeric strings) collapse to their decimal form so "12", 12 and 12.0
// compare equal; anything else is trimmed and kept verbatim.
func coerceID(raw any) string {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return strconv.FormatInt(int64(n), 10)
		}
		return s
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case float32:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// sameID compares two ids after coercion.
func sameID(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return coerceID(a) == coerceID(b)
}
