package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/multistore/backend/internal/domain/identity"
	"github.com/multistore/backend/internal/domain/shared"
	"github.com/multistore/backend/internal/domain/store"
)

// StaffService manages a store's dashboard team
type StaffService struct {
	userRepo  identity.AdminUserRepository
	storeRepo store.StoreRepository
	mailer    Mailer
	logger    *zap.Logger
}

// NewStaffService creates a new staff service
func NewStaffService(
	userRepo identity.AdminUserRepository,
	storeRepo store.StoreRepository,
	mailer Mailer,
	logger *zap.Logger,
) *StaffService {
	return &StaffService{
		userRepo:  userRepo,
		storeRepo: storeRepo,
		mailer:    mailer,
		logger:    logger,
	}
}

// Create adds a staff member to the store and emails an invite carrying
// the verification token
func (s *StaffService) Create(ctx context.Context, storeID uuid.UUID, req CreateStaffRequest) (*AdminUserResponse, error) {
	exists, err := s.userRepo.ExistsByEmailForStore(ctx, storeID, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	user, err := identity.NewAdminUser(storeID, req.Email, req.Password, req.FirstName, req.LastName, identity.AdminRole(req.Role))
	if err != nil {
		return nil, err
	}

	token, err := newSecureToken()
	if err != nil {
		return nil, err
	}
	user.IssueEmailVerification(HashToken(token))

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	storeName := ""
	if st, err := s.storeRepo.FindByID(ctx, storeID); err == nil {
		storeName = st.Name
	}
	if err := s.mailer.SendStaffInvite(ctx, user.Email, user.FullName(), storeName, token); err != nil {
		s.logger.Error("failed to send staff invite",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	response := ToAdminUserResponse(user)
	return &response, nil
}

// Get returns a staff member of the store
func (s *StaffService) Get(ctx context.Context, storeID, userID uuid.UUID) (*AdminUserResponse, error) {
	user, err := s.findForStore(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	response := ToAdminUserResponse(user)
	return &response, nil
}

// List returns the store's staff with pagination
func (s *StaffService) List(ctx context.Context, storeID uuid.UUID, req StaffListFilter) (*StaffListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Filters:  map[string]interface{}{},
	}
	if req.Role != "" {
		filter.Filters["role"] = req.Role
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	users, err := s.userRepo.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.CountForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	return &StaffListResponse{
		Items:    ToAdminUserResponses(users),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// Update changes a staff member's name or role
func (s *StaffService) Update(ctx context.Context, storeID, userID uuid.UUID, req UpdateStaffRequest) (*AdminUserResponse, error) {
	user, err := s.findForStore(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}

	firstName := user.FirstName
	lastName := user.LastName
	if req.FirstName != nil {
		firstName = *req.FirstName
	}
	if req.LastName != nil {
		lastName = *req.LastName
	}
	if err := user.SetName(firstName, lastName); err != nil {
		return nil, err
	}
	if req.Role != nil {
		if err := user.SetRole(identity.AdminRole(*req.Role)); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToAdminUserResponse(user)
	return &response, nil
}

// Activate re-enables a deactivated staff member
func (s *StaffService) Activate(ctx context.Context, storeID, userID uuid.UUID) (*AdminUserResponse, error) {
	return s.transition(ctx, storeID, userID, func(u *identity.AdminUser) error {
		return u.Activate()
	})
}

// Deactivate blocks a staff member from logging in
func (s *StaffService) Deactivate(ctx context.Context, storeID, userID uuid.UUID) (*AdminUserResponse, error) {
	return s.transition(ctx, storeID, userID, func(u *identity.AdminUser) error {
		return u.Deactivate()
	})
}

// Delete removes a staff member from the store
func (s *StaffService) Delete(ctx context.Context, storeID, userID uuid.UUID) error {
	user, err := s.findForStore(ctx, storeID, userID)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, user.ID)
}

func (s *StaffService) transition(ctx context.Context, storeID, userID uuid.UUID, fn func(*identity.AdminUser) error) (*AdminUserResponse, error) {
	user, err := s.findForStore(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToAdminUserResponse(user)
	return &response, nil
}

// Scope lookups to the store so one tenant cannot manage another's users
func (s *StaffService) findForStore(ctx context.Context, storeID, userID uuid.UUID) (*identity.AdminUser, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.BelongsToStore(storeID) {
		return nil, shared.ErrNotFound
	}
	return user, nil
}
