package identity

import (
	"context"
	"time"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/auth"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// UserService handles user administration inside a tenant
type UserService struct {
	users     identity.UserRepository
	auth      *Authorizer
	blacklist auth.TokenBlacklist
	events    shared.EventPublisher
	// lifetime of a refresh token; deactivation invalidates tokens for this long
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	users identity.UserRepository,
	authorizer *Authorizer,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:     users,
		auth:      authorizer,
		blacklist: blacklist,
		events:    events,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Create adds a user to the actor's tenant
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceUser, identity.ActionCreate)
	if err != nil {
		return nil, err
	}

	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	exists, err := s.users.ExistsByUsername(ctx, actor.TenantID, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Username already exists")
	}

	user, err := identity.NewUser(actor.TenantID, input.Username, input.Password, role)
	if err != nil {
		return nil, err
	}
	user.CreatedBy = actor.UserID
	if err := user.SetEmail(input.Email); err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(input.DisplayName); err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("User created",
		zap.String("tenant_id", actor.TenantID),
		zap.String("user_id", user.ID),
		zap.String("role", string(role)),
		zap.String("created_by", actor.UserID))

	dto := ToUserDTO(user)
	return &dto, nil
}

// List returns users of the actor's tenant
func (s *UserService) List(ctx context.Context, filter UserListFilter) (shared.Paginated[UserDTO], error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceUser, identity.ActionRead)
	if err != nil {
		return shared.Paginated[UserDTO]{}, err
	}

	f := identity.UserFilter{Filter: filter.Filter.Normalize()}
	if filter.Role != "" {
		role, err := identity.ParseRole(filter.Role)
		if err != nil {
			return shared.Paginated[UserDTO]{}, err
		}
		f.Role = &role
	}
	if filter.Status != "" {
		status := identity.UserStatus(filter.Status)
		f.Status = &status
	}

	users, total, err := s.users.FindAll(ctx, actor.TenantID, f)
	if err != nil {
		return shared.Paginated[UserDTO]{}, err
	}
	items := lo.Map(users, func(u *identity.User, _ int) UserDTO { return ToUserDTO(u) })
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Get returns one user of the actor's tenant
func (s *UserService) Get(ctx context.Context, id string) (*UserDTO, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceUser, identity.ActionRead)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	dto := ToUserDTO(user)
	return &dto, nil
}

// ChangeRole assigns a new role. Users cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, id, role string) (*UserDTO, error) {
	return s.mutate(ctx, id, "change the role of", true, func(u *identity.User) error {
		r, err := identity.ParseRole(role)
		if err != nil {
			return err
		}
		return u.ChangeRole(r)
	})
}

// Deactivate disables a user and invalidates every token issued to them
func (s *UserService) Deactivate(ctx context.Context, id string) (*UserDTO, error) {
	dto, err := s.mutate(ctx, id, "deactivate", true, func(u *identity.User) error {
		return u.Deactivate()
	})
	if err != nil {
		return nil, err
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, id, s.tokenTTL); err != nil {
		s.logger.Error("Failed to invalidate tokens of deactivated user",
			zap.String("user_id", id),
			zap.Error(err))
		return nil, err
	}
	return dto, nil
}

// Activate re-enables a deactivated user
func (s *UserService) Activate(ctx context.Context, id string) (*UserDTO, error) {
	return s.mutate(ctx, id, "activate", false, func(u *identity.User) error {
		return u.Activate()
	})
}

// Unlock clears a login lockout
func (s *UserService) Unlock(ctx context.Context, id string) (*UserDTO, error) {
	return s.mutate(ctx, id, "unlock", false, func(u *identity.User) error {
		return u.Unlock()
	})
}

func (s *UserService) mutate(ctx context.Context, id, op string, notSelf bool, fn func(*identity.User) error) (*UserDTO, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceUser, identity.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if notSelf && id == actor.UserID {
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "You cannot "+op+" your own account")
	}

	user, err := s.users.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("User updated",
		zap.String("tenant_id", actor.TenantID),
		zap.String("user_id", user.ID),
		zap.String("operation", op),
		zap.String("by", actor.UserID))

	dto := ToUserDTO(user)
	return &dto, nil
}

func (s *UserService) publish(ctx context.Context, user *identity.User) {
	if err := shared.PublishAndClear(ctx, s.events, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
}
