package auth

import (
	"context"
	"database/sql"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"library-backend/internal/platform/apperr"
	"library-backend/internal/platform/cache"
	"library-backend/internal/platform/storage"
)

// Cache families for role lookups. Every role mutation evicts both.
const (
	cacheFamilyRoles = "roles"
	cacheFamilyRole  = "role"
)

var upper = cases.Upper(language.Und)

type Service struct {
	store    UserStore
	files    *storage.FileStore
	cache    cache.Cache
	secret   []byte
	tokenTTL time.Duration
}

func NewService(conn *sql.DB, files *storage.FileStore, c cache.Cache, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{
		store:    NewStore(conn),
		files:    files,
		cache:    c,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// NewServiceWith wires explicit collaborators; tests use it to substitute a
// fake store.
func NewServiceWith(store UserStore, files *storage.FileStore, c cache.Cache, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{store: store, files: files, cache: c, secret: secret, tokenTTL: tokenTTL}
}

func (s *Service) Secret() []byte { return s.secret }

type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type RoleResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func buildUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.RoleName,
		CreatedAt: u.CreatedAt,
	}
}

// Register creates a user under the given role name (signup always passes
// MEMBER; privileged flows may pass another role).
func (s *Service) Register(ctx context.Context, username, email, password, roleName string) error {
	email = strings.ToLower(email)

	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return apperr.AlreadyExists(fmt.Sprintf("user with email: %s already exists", email))
	}

	role, err := s.store.GetRoleByName(ctx, upper.String(roleName))
	if err != nil {
		return err
	}
	if role == nil {
		return apperr.NotFound(fmt.Sprintf("role not found with name: %s", roleName))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.store.Create(ctx, &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
	})
}

// Login verifies the credentials and issues a signed token carrying the
// user's identity and role.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(email)

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperr.NotFound(fmt.Sprintf("user not found with email: %s", email))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperr.InvalidCredentials("password does not match")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"role":  user.RoleName,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})

	return token.SignedString(s.secret)
}

func (s *Service) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, buildUserResponse(u))
	}
	return result, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*UserResponse, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound(fmt.Sprintf("user with id: %d not exist", id))
	}
	resp := buildUserResponse(user)
	return &resp, nil
}

// UpdateUserData lets a user change their own username and password. Only
// the account owner may do this, regardless of role.
func (s *Service) UpdateUserData(ctx context.Context, principal Principal, userID int64, username, password string) error {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound(fmt.Sprintf("user with id: %d not exist", userID))
	}

	if principal.UserID != userID {
		return apperr.AccessDenied("you are not authorized to update this user data")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	n, err := s.store.UpdateData(ctx, userID, username, string(hash))
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound(fmt.Sprintf("user with id: %d not exist", userID))
	}
	return nil
}

// UpdateProfileImage stores the uploaded image and records it against the
// calling user's profile, replacing any previous one.
func (s *Service) UpdateProfileImage(ctx context.Context, principal Principal, file *multipart.FileHeader) (string, error) {
	if !storage.AllowedImageType(file.Header.Get("Content-Type")) {
		return "", apperr.InvalidArgument("invalid file type, only PNG, JPG and JPEG files are allowed")
	}

	path, err := s.files.SaveImage(file, "profile")
	if err != nil {
		return "", err
	}

	if err := s.store.UpsertProfileImage(ctx, principal.UserID, file.Filename, path); err != nil {
		return "", err
	}
	return path, nil
}

// AddRole creates a role, canonicalizing the name to upper case.
func (s *Service) AddRole(ctx context.Context, name string) (*RoleResponse, error) {
	canonical := upper.String(name)

	existing, err := s.store.GetRoleByName(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.AlreadyExists(fmt.Sprintf("role with name: %s already exists", canonical))
	}

	id, err := s.store.CreateRole(ctx, canonical)
	if err != nil {
		return nil, err
	}

	s.cache.EvictFamily(cacheFamilyRoles)
	s.cache.EvictFamily(cacheFamilyRole)

	return &RoleResponse{ID: id, Name: canonical}, nil
}

func (s *Service) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	if v, ok := s.cache.Get(cacheFamilyRoles, "all"); ok {
		return v.([]RoleResponse), nil
	}

	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		result = append(result, RoleResponse{ID: r.ID, Name: r.Name})
	}

	s.cache.Put(cacheFamilyRoles, "all", result)
	return result, nil
}

func (s *Service) GetRole(ctx context.Context, id int64) (*RoleResponse, error) {
	key := strconv.FormatInt(id, 10)
	if v, ok := s.cache.Get(cacheFamilyRole, key); ok {
		resp := v.(RoleResponse)
		return &resp, nil
	}

	role, err := s.store.GetRoleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperr.NotFound(fmt.Sprintf("role with id: %d not exists", id))
	}

	resp := RoleResponse{ID: role.ID, Name: role.Name}
	s.cache.Put(cacheFamilyRole, key, resp)
	return &resp, nil
}
