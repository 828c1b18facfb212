package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moa-app/moa-backend/config"
	"github.com/moa-app/moa-backend/internal/auditlog"
	"github.com/moa-app/moa-backend/internal/testutil"
)

func newTestAuth(t *testing.T) (Service, Repository) {
	t.Helper()
	db := testutil.DB(t, &User{}, &auditlog.AuditLog{})
	auditSvc := auditlog.NewService(auditlog.NewRepository(db))
	repo := NewRepository(db)
	cfg := &config.Config{JWTSecret: "test-secret", JWTTokenTTLDays: 7}
	return NewService(repo, auditSvc, cfg), repo
}

func sampleSignup() SignupInput {
	return SignupInput{
		Email:      "minji@univ.ac.kr",
		Password:   "s3cret-pass",
		Name:       "Minji Kim",
		University: "Seoul National University",
	}
}

func TestSignup(t *testing.T) {
	svc, _ := newTestAuth(t)

	user, token, err := svc.Signup(sampleSignup(), "127.0.0.1")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "minji@univ.ac.kr", user.Email)
	assert.Equal(t, "Minji Kim", user.Name)
	assert.Equal(t, "Seoul National University", user.University)
	assert.Nil(t, user.Major)
	assert.Nil(t, user.GraduationYear)
	assert.Nil(t, user.Bio)

	// Passwords are stored only as bcrypt hashes.
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)

	userID, email, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, user.Email, email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, repo := newTestAuth(t)

	_, _, err := svc.Signup(sampleSignup(), "127.0.0.1")
	require.NoError(t, err)

	in := sampleSignup()
	in.Name = "Someone Else"
	_, _, err = svc.Signup(in, "127.0.0.1")
	assert.ErrorIs(t, err, ErrEmailTaken)

	// The conflicting attempt must not have replaced the original row.
	user, err := repo.FindByEmail("minji@univ.ac.kr")
	require.NoError(t, err)
	assert.Equal(t, "Minji Kim", user.Name)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuth(t)

	created, _, err := svc.Signup(sampleSignup(), "127.0.0.1")
	require.NoError(t, err)

	user, token, err := svc.Login(LoginInput{Email: "minji@univ.ac.kr", Password: "s3cret-pass"}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(LoginInput{Email: "minji@univ.ac.kr", Password: "wrong"}, "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email is indistinguishable from a bad password.
	_, _, err = svc.Login(LoginInput{Email: "nobody@univ.ac.kr", Password: "s3cret-pass"}, "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestAuth(t)

	created, _, err := svc.Signup(sampleSignup(), "127.0.0.1")
	require.NoError(t, err)

	major := "Computer Science"
	year := "2027"
	bio := "Coffee, climbing, compilers."

	user, token, err := svc.UpdateProfile(created.ID, ProfileInput{
		Major:          &major,
		GraduationYear: &year,
		Bio:            &bio,
	})
	require.NoError(t, err)
	require.NotNil(t, user.Major)
	assert.Equal(t, major, *user.Major)
	require.NotNil(t, user.GraduationYear)
	assert.Equal(t, year, *user.GraduationYear)
	require.NotNil(t, user.Bio)
	assert.Equal(t, bio, *user.Bio)

	// A fresh token is minted on every profile save.
	userID, _, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)

	// Unchanged identity fields survive the update.
	got, err := svc.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Minji Kim", got.Name)
	assert.Equal(t, "minji@univ.ac.kr", got.Email)

	_, _, err = svc.UpdateProfile("no-such-user", ProfileInput{Major: &major})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuth(t)

	_, _, err := svc.ParseToken("not-a-token")
	assert.Error(t, err)

	// A token signed with a different secret must not verify.
	otherCfg := &config.Config{JWTSecret: "other-secret", JWTTokenTTLDays: 7}
	db := testutil.DB(t, &User{}, &auditlog.AuditLog{})
	other := NewService(NewRepository(db), auditlog.NewService(auditlog.NewRepository(db)), otherCfg)

	_, token, err := other.Signup(sampleSignup(), "127.0.0.1")
	require.NoError(t, err)

	_, _, err = svc.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongAlgorithm(t *testing.T) {
	svc, _ := newTestAuth(t)

	// Signed with the right secret but the wrong HMAC variant: only HS256
	// tokens are accepted.
	claims := jwt.MapClaims{
		"user_id": "user-1",
		"email":   "minji@univ.ac.kr",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, _, err = svc.ParseToken(forged)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = svc.ParseToken(unsigned)
	assert.Error(t, err)
}
