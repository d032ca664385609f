package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/cryptox"
	"github.com/dmitrijs2005/userauth/internal/dbx"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

var cheapParams = cryptox.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, SaltLen: 16, KeyLen: 32}

// countingHasher wraps a real hasher and counts Verify calls.
type countingHasher struct {
	PasswordHasher
	verifies atomic.Int32
}

func (h *countingHasher) Verify(password, encoded string) (bool, error) {
	h.verifies.Add(1)
	return h.PasswordHasher.Verify(password, encoded)
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error)         { return "", errors.New("no entropy") }
func (failingHasher) Verify(string, string) (bool, error) { return false, nil }

type failingIssuer struct{}

func (failingIssuer) Issue(int64, string) (string, error) { return "", errors.New("signer down") }

// brokenRepo fails every call with a non-domain error.
type brokenRepo struct{ users.Repository }

var errDB = errors.New("db error: connection reset")

func (brokenRepo) Create(context.Context, *models.User) (*models.User, error) { return nil, errDB }
func (brokenRepo) GetByID(context.Context, int64) (*models.User, error)       { return nil, errDB }
func (brokenRepo) GetByEmail(context.Context, string) (*models.User, error)   { return nil, errDB }
func (brokenRepo) List(context.Context) ([]*models.User, error)               { return nil, errDB }
func (brokenRepo) Update(context.Context, int64, models.UserInfo) error       { return errDB }
func (brokenRepo) Delete(context.Context, int64) error                        { return errDB }

type brokenManager struct{ repomanager.RepositoryManager }

func (brokenManager) Users(dbx.DBTX) users.Repository { return brokenRepo{} }

type fixture struct {
	auth   *AuthService
	users  *UserService
	tokens *auth.TokenManager
	hasher *countingHasher
	repos  repomanager.RepositoryManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tm, err := auth.NewTokenManager([]byte("test-secret"))
	require.NoError(t, err)

	h := &countingHasher{PasswordHasher: cryptox.NewArgon2Hasher(cheapParams)}
	m := repomanager.NewInMemoryRepositoryManager()
	tp := noop.NewTracerProvider()

	as, err := NewAuthService(nil, m, h, tm, logging.Nop{}, tp)
	require.NoError(t, err)

	return &fixture{
		auth:   as,
		users:  NewUserService(nil, m, logging.Nop{}, tp),
		tokens: tm,
		hasher: h,
		repos:  m,
	}
}

func (f *fixture) register(t *testing.T, email, password string) *AuthResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Email: email, Password: password, Name: "A", Occupation: "Eng",
	})
	require.NoError(t, err)
	return res
}

// isExpected reports whether err is one of the domain outcomes callers map
// to client errors.
func isExpected(err error) bool {
	return errors.Is(err, common.ErrorUnauthorized) ||
		errors.Is(err, common.ErrorConflict) ||
		errors.Is(err, common.ErrorValidation) ||
		errors.Is(err, common.ErrorNotFound)
}
