package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/minimarket/kardex-api/internal/application/auth"
	"github.com/minimarket/kardex-api/internal/application/dto"
	"github.com/minimarket/kardex-api/internal/domain"
	"github.com/minimarket/kardex-api/internal/domain/entity"
	pkgjwt "github.com/minimarket/kardex-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake de UserRepository en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

var testJWTCfg = auth.JWTConfig{
	Secret:     "test-secret-key-for-unit-tests",
	ExpMinutes: 60,
	Issuer:     "kardex-api-test",
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateUser
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateUser_HasheaElPasswordConBcrypt(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	out, err := uc.CreateUser(dto.CreateUserRequest{
		Email:    "caja@minimarket.local",
		Password: "clave-segura-123",
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	stored := repo.byEmail["caja@minimarket.local"]
	require.NotNil(t, stored, "el usuario debe quedar persistido")
	assert.NotEqual(t, "clave-segura-123", stored.PasswordHash,
		"el password nunca se guarda en texto plano")
	assert.NoError(t,
		bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-segura-123")),
		"el hash debe corresponder al password original")

	assert.Equal(t, entity.RoleVendedor, out.Role, "sin rol explícito se asigna vendedor")
	assert.Equal(t, entity.UserStatusActive, out.Status)
	assert.Equal(t, "caja@minimarket.local", out.Name, "sin nombre se usa el email")
}

func TestCreateUser_EmailDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	_, err := uc.CreateUser(dto.CreateUserRequest{Email: "caja@minimarket.local", Password: "clave-segura-123"})
	require.NoError(t, err)

	_, err = uc.CreateUser(dto.CreateUserRequest{Email: "caja@minimarket.local", Password: "otra-clave-456"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestCreateUser_RolInvalido(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	_, err := uc.CreateUser(dto.CreateUserRequest{
		Email:    "gerencia@minimarket.local",
		Password: "clave-segura-123",
		Role:     "gerente",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo se aceptan los roles admin y vendedor")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_DevuelveTokenConUserIDYRole(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	created, err := uc.CreateUser(dto.CreateUserRequest{
		Email:    "admin@minimarket.local",
		Password: "clave-segura-123",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "admin@minimarket.local", Password: "clave-segura-123"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	userID, role, err := pkgjwt.Parse(testJWTCfg.Secret, out.Token)
	require.NoError(t, err, "el token emitido debe validar con el mismo secret")
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
	assert.Equal(t, "admin@minimarket.local", out.User.Email)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	_, err := uc.CreateUser(dto.CreateUserRequest{Email: "caja@minimarket.local", Password: "clave-segura-123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "caja@minimarket.local", Password: "clave-equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmailInexistente(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@minimarket.local", Password: "lo-que-sea"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized,
		"no se distingue email inexistente de password incorrecto")
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWTCfg)

	_, err := uc.CreateUser(dto.CreateUserRequest{Email: "ex@minimarket.local", Password: "clave-segura-123"})
	require.NoError(t, err)
	repo.byEmail["ex@minimarket.local"].Status = entity.UserStatusInactive

	_, err = uc.Login(dto.LoginRequest{Email: "ex@minimarket.local", Password: "clave-segura-123"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "una cuenta inactiva no puede iniciar sesión")
}
