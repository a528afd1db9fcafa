package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/application/auth"
	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-stock/pkg/jwt"
)

var testJWT = auth.JWTConfig{Secret: "secreto-de-prueba", ExpMinutes: 5, Issuer: "gestion-stock-test"}

func TestRegisterUser_PrimeroEsAdmin(t *testing.T) {
	ctx := context.Background()
	uc := auth.NewAuthUseCase(memory.New().Users(), testJWT)

	first, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Jefa@Tienda.com", Password: "password1", Name: "Jefa"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, first.Role)
	assert.Equal(t, "jefa@tienda.com", first.Email)

	second, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "caja@tienda.com", Password: "password2"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, second.Role)
	assert.Equal(t, "caja@tienda.com", second.Name)
}

func TestRegisterUser_Errores(t *testing.T) {
	ctx := context.Background()
	uc := auth.NewAuthUseCase(memory.New().Users(), testJWT)

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.com", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "A@B.com", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	uc := auth.NewAuthUseCase(memory.New().Users(), testJWT)
	registered, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ana@tienda.com", Password: "password1", Name: "Ana"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "ANA@tienda.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, out.User.ID)

	id, err := jwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, id.UserID)
	assert.Equal(t, "Ana", id.UserName)
	assert.Equal(t, entity.RoleAdmin, id.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@tienda.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@tienda.com", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
