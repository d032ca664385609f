package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/cryptox"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister_ReturnsVerifiableToken(t *testing.T) {
	f := newFixture(t)

	res := f.register(t, "a@x.com", "p1")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, models.UserPublic{ID: 1, Email: "a@x.com", Name: "A", Occupation: "Eng"}, res.User)

	claims, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestRegister_StoresHashNotPassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com", "p1")

	u, err := f.repos.Users(nil).GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", u.PasswordHash)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$argon2id$"))
}

func TestRegister_NormalizesEmail(t *testing.T) {
	f := newFixture(t)

	res := f.register(t, "  A@X.com ", "p1")
	assert.Equal(t, "a@x.com", res.User.Email)

	_, err := f.auth.Login(context.Background(), LoginInput{Email: "a@x.COM", Password: "p1"})
	assert.NoError(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com", "p1")

	_, err := f.auth.Register(context.Background(), RegisterInput{
		Email: "a@x.com", Password: "other", Name: "B", Occupation: "Ops",
	})
	assert.ErrorIs(t, err, common.ErrorConflict)

	// the original credentials still work
	_, err = f.auth.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "p1"})
	assert.NoError(t, err)
}

func TestRegister_Validation(t *testing.T) {
	long := strings.Repeat("x", maxProfileFieldLen+1)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing email", RegisterInput{Password: "p", Name: "A", Occupation: "Eng"}},
		{"bad email", RegisterInput{Email: "not-an-email", Password: "p", Name: "A", Occupation: "Eng"}},
		{"missing password", RegisterInput{Email: "a@x.com", Name: "A", Occupation: "Eng"}},
		{"missing name", RegisterInput{Email: "a@x.com", Password: "p", Occupation: "Eng"}},
		{"missing occupation", RegisterInput{Email: "a@x.com", Password: "p", Name: "A"}},
		{"name too long", RegisterInput{Email: "a@x.com", Password: "p", Name: long, Occupation: "Eng"}},
		{"occupation too long", RegisterInput{Email: "a@x.com", Password: "p", Name: "A", Occupation: long}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.auth.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, common.ErrorValidation)

			list, err := f.repos.Users(nil).List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestRegister_HashFailureIsInternal(t *testing.T) {
	tm, err := auth.NewTokenManager([]byte("s"))
	require.NoError(t, err)

	// the reference hash is computed by the constructor, so build the
	// service with a working hasher first and swap it afterwards.
	s, err := NewAuthService(nil, repomanager.NewInMemoryRepositoryManager(), cryptox.NewArgon2Hasher(cheapParams),
		tm, logging.Nop{}, noop.NewTracerProvider())
	require.NoError(t, err)
	s.hasher = failingHasher{}

	_, err = s.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "p", Name: "A", Occupation: "Eng"})
	require.Error(t, err)
	assert.False(t, isExpected(err))
}

func TestNewAuthService_HasherFailure(t *testing.T) {
	tm, err := auth.NewTokenManager([]byte("s"))
	require.NoError(t, err)

	_, err = NewAuthService(nil, repomanager.NewInMemoryRepositoryManager(), failingHasher{},
		tm, logging.Nop{}, noop.NewTracerProvider())
	assert.Error(t, err)
}

func TestRegister_IssuerFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.auth.tokens = failingIssuer{}

	_, err := f.auth.Register(context.Background(), RegisterInput{Email: "a@x.com", Password: "p", Name: "A", Occupation: "Eng"})
	require.Error(t, err)
	assert.False(t, isExpected(err))
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "a@x.com", "p1")

	res, err := f.auth.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User, res.User)

	claims, err := f.tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
}

func TestLogin_WrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com", "p1")

	_, errWrong := f.auth.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "nope"})
	_, errUnknown := f.auth.Login(context.Background(), LoginInput{Email: "ghost@x.com", Password: "nope"})

	require.ErrorIs(t, errWrong, common.ErrorUnauthorized)
	require.ErrorIs(t, errUnknown, common.ErrorUnauthorized)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestLogin_UnknownEmailStillVerifies(t *testing.T) {
	f := newFixture(t)

	before := f.hasher.verifies.Load()
	_, err := f.auth.Login(context.Background(), LoginInput{Email: "ghost@x.com", Password: "p"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Equal(t, before+1, f.hasher.verifies.Load())
}

func TestLogin_EmptyPassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@x.com", "p1")

	_, err := f.auth.Login(context.Background(), LoginInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_LegacyBcryptHash(t *testing.T) {
	f := newFixture(t)

	legacy, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = f.repos.Users(nil).Create(context.Background(), &models.User{
		Email: "old@x.com", PasswordHash: string(legacy), Name: "O", Occupation: "Ops",
	})
	require.NoError(t, err)

	_, err = f.auth.Login(context.Background(), LoginInput{Email: "old@x.com", Password: "old-pass"})
	assert.NoError(t, err)
}

func TestLogin_MalformedStoredHashIsInternal(t *testing.T) {
	f := newFixture(t)
	_, err := f.repos.Users(nil).Create(context.Background(), &models.User{
		Email: "bad@x.com", PasswordHash: "garbage", Name: "B", Occupation: "Ops",
	})
	require.NoError(t, err)

	_, err = f.auth.Login(context.Background(), LoginInput{Email: "bad@x.com", Password: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrHashFormat)
	assert.False(t, isExpected(err))
}

func TestLogin_StoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.auth.repomanager = brokenManager{}

	_, err := f.auth.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDB)
	assert.False(t, isExpected(err))
}

func TestAuthService_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	tm, err := auth.NewTokenManager([]byte("s"))
	require.NoError(t, err)
	s, err := NewAuthService(nil, repomanager.NewInMemoryRepositoryManager(), cryptox.NewArgon2Hasher(cheapParams),
		tm, logging.Nop{}, tp)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.Register(ctx, RegisterInput{Email: "a@x.com", Password: "p", Name: "A", Occupation: "Eng"})
	require.NoError(t, err)
	_, err = s.Login(ctx, LoginInput{Email: "a@x.com", Password: "wrong"})
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	s.repomanager = brokenManager{}
	_, err = s.Login(ctx, LoginInput{Email: "a@x.com", Password: "p"})
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 3)

	assert.Equal(t, "AuthService.Register", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	assert.Equal(t, "AuthService.Login", spans[1].Name())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "rejected", spans[1].Events()[0].Name)

	assert.Equal(t, codes.Error, spans[2].Status().Code)
}
