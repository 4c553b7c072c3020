package authservice

import (
	"context"

	"github.com/sushihentaime/bloglist/internal/common"
)

// State tracks how far a request got through authentication.
type State int

const (
	StateNoToken State = iota
	StateTokenPresent
	StateVerified
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateNoToken:
		return "no_token"
	case StateTokenPresent:
		return "token_present"
	case StateVerified:
		return "verified"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

var ErrAuthenticationRequired = common.NewError(common.KindUnauthenticated, "token missing or invalid")

// Auth is the value threaded through the pipeline. Identity is nil until a
// token has been verified and its user found.
type Auth struct {
	Header   string
	Token    string
	State    State
	Identity *Identity
}

// Result is either a continuation carrying the next Auth or a short circuit
// carrying the error that ends the request.
type Result struct {
	Auth Auth
	Err  error
}

func Continue(a Auth) Result {
	return Result{Auth: a}
}

func ShortCircuit(a Auth, err error) Result {
	return Result{Auth: a, Err: err}
}

func (r Result) Halted() bool {
	return r.Err != nil
}

type Stage func(ctx context.Context, a Auth) Result

// Run applies stages in order and stops at the first short circuit.
func Run(ctx context.Context, a Auth, stages ...Stage) (Auth, error) {
	for _, stage := range stages {
		res := stage(ctx, a)
		if res.Halted() {
			return res.Auth, res.Err
		}
		a = res.Auth
	}

	return a, nil
}

// Extract reads the bearer token from the header. A missing token is not an
// error here.
func Extract(_ context.Context, a Auth) Result {
	token, ok := ExtractToken(a.Header)
	if !ok {
		a.Token = ""
		a.State = StateNoToken
		return Continue(a)
	}

	a.Token = token
	a.State = StateTokenPresent
	return Continue(a)
}

// RequireIdentity rejects requests that reached it without a resolved user.
func RequireIdentity(_ context.Context, a Auth) Result {
	if a.Identity == nil {
		return ShortCircuit(a, ErrAuthenticationRequired)
	}

	return Continue(a)
}

func NewAuthenticator(tokens *TokenService, resolver UserResolver) *Authenticator {
	return &Authenticator{tokens: tokens, resolver: resolver}
}

// Verify checks a present token and resolves its user. Requests without a
// token pass through untouched; a bad token rejects the request; a valid
// token for a user that no longer exists leaves the identity empty.
func (au *Authenticator) Verify(ctx context.Context, a Auth) Result {
	if a.State != StateTokenPresent {
		return Continue(a)
	}

	claimed, err := au.tokens.Verify(a.Token)
	if err != nil {
		a.State = StateRejected
		a.Identity = nil
		return ShortCircuit(a, err)
	}

	id, err := au.resolver.ResolveIdentity(ctx, claimed.UserID)
	if err != nil {
		a.State = StateRejected
		return ShortCircuit(a, err)
	}

	a.State = StateVerified
	a.Identity = id
	return Continue(a)
}

// Stages returns the stages for an endpoint; requireIdentity appends the
// RequireIdentity stage.
func (au *Authenticator) Stages(requireIdentity bool) []Stage {
	stages := []Stage{Extract, au.Verify}
	if requireIdentity {
		stages = append(stages, RequireIdentity)
	}

	return stages
}

// Owns reports whether id may modify a record owned by ownerID. Records
// without an owner belong to nobody.
func Owns(id *Identity, ownerID *int64) bool {
	if id == nil || ownerID == nil {
		return false
	}

	return id.UserID == *ownerID
}
