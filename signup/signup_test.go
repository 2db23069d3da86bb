package signup

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabsye/waitlist/store"
	"github.com/tabsye/waitlist/tracker"
	"github.com/tabsye/waitlist/waitlist"
)

// fakeAPI records calls and answers with canned results.
type fakeAPI struct {
	mu        sync.Mutex
	adds      []waitlist.AddRequest
	existsFor map[string]bool
	addResp   *waitlist.AddResponse
	addErr    error
	existsErr error
	existsN   int
}

func (f *fakeAPI) Add(ctx context.Context, req waitlist.AddRequest) (*waitlist.AddResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds = append(f.adds, req)
	if f.addErr != nil {
		return nil, f.addErr
	}
	if f.addResp != nil {
		return f.addResp, nil
	}
	return &waitlist.AddResponse{Success: true}, nil
}

func (f *fakeAPI) Exists(ctx context.Context, kind, value string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsN++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existsFor[kind+":"+value], nil
}

func newService(api *fakeAPI, opts ...Option) (*Service, *tracker.Tracker) {
	tr := tracker.New(store.NewMemory())
	return New(tr, api, opts...), tr
}

func emailRequest(value string) Request {
	return Request{Kind: tracker.KindEmail, Value: value, FirstName: " Ada ", LastName: "Lovelace "}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		req  Request
		want error
	}{
		{Request{Kind: tracker.KindEmail, Value: "a@x.com", LastName: "L"}, ErrFirstNameRequired},
		{Request{Kind: tracker.KindEmail, Value: "a@x.com", FirstName: "F", LastName: "  "}, ErrLastNameRequired},
		{Request{Kind: tracker.KindEmail, Value: " ", FirstName: "F", LastName: "L"}, ErrEmailRequired},
		{Request{Kind: tracker.KindEmail, Value: "not-an-email", FirstName: "F", LastName: "L"}, ErrInvalidEmail},
		{Request{Kind: tracker.KindEmail, Value: "a @x.com", FirstName: "F", LastName: "L"}, ErrInvalidEmail},
		{Request{Kind: tracker.KindMobile, Value: "", FirstName: "F", LastName: "L"}, ErrMobileRequired},
		{Request{Kind: tracker.KindMobile, Value: "555-0100", FirstName: "F", LastName: "L"}, ErrInvalidMobile},
		{Request{Kind: tracker.KindMobile, Value: "12345678901", FirstName: "F", LastName: "L"}, ErrInvalidMobile},
		{Request{Kind: "fax", Value: "1", FirstName: "F", LastName: "L"}, ErrInvalidKind},
		{Request{Kind: tracker.KindEmail, Value: " a@x.com ", FirstName: "F", LastName: "L"}, nil},
		{Request{Kind: tracker.KindMobile, Value: "1234567890", FirstName: "F", LastName: "L"}, nil},
	}
	for _, tc := range cases {
		err := Validate(tc.req)
		if tc.want == nil {
			assert.NoError(t, err, "%+v", tc.req)
			continue
		}
		assert.True(t, errors.Is(err, tc.want), "%+v: got %v", tc.req, err)
	}
}

func TestSubmit_RecordsAfterSuccess(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	svc, tr := newService(api)

	resp, err := svc.Submit(ctx, emailRequest(" Guest@Hotel.example "))
	require.NoError(t, err)
	assert.True(t, resp.Success)

	require.Len(t, api.adds, 1)
	assert.Equal(t, waitlist.AddRequest{Type: "email", Email: "Guest@Hotel.example", FirstName: "Ada", LastName: "Lovelace"}, api.adds[0])
	assert.True(t, tr.Has(ctx, tracker.KindEmail, "guest@hotel.example"))
}

func TestSubmit_MobilePayload(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := newService(api)

	_, err := svc.Submit(context.Background(), Request{Kind: tracker.KindMobile, Value: "1234567890", FirstName: "F", LastName: "L"})
	require.NoError(t, err)
	require.Len(t, api.adds, 1)
	assert.Equal(t, "mobile", api.adds[0].Type)
	assert.Equal(t, "1234567890", api.adds[0].Mobile)
	assert.Empty(t, api.adds[0].Email)
}

func TestSubmit_LocalDuplicateSkipsRemote(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	svc, tr := newService(api, WithRemoteExists(true))
	tr.Add(ctx, tracker.KindEmail, "a@x.com")

	_, err := svc.Submit(ctx, emailRequest("A@X.com"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))

	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.False(t, dup.Remote)
	assert.Empty(t, api.adds, "remote add must not be called")
	assert.Equal(t, 0, api.existsN, "remote exists must not be called")
	assert.Equal(t, "This email is already registered for the waitlist.", UserMessage(err))
}

func TestSubmit_RemoteDuplicate(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{existsFor: map[string]bool{"mobile:1234567890": true}}
	svc, tr := newService(api, WithRemoteExists(true))

	_, err := svc.Submit(ctx, Request{Kind: tracker.KindMobile, Value: "1234567890", FirstName: "F", LastName: "L"})
	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.True(t, dup.Remote)
	assert.Empty(t, api.adds)
	assert.Empty(t, tr.Records(ctx), "only a successful add is recorded")
	assert.Equal(t, "This mobile number is already registered for the waitlist.", UserMessage(err))
}

func TestSubmit_RemoteExistsDisabled(t *testing.T) {
	api := &fakeAPI{existsFor: map[string]bool{"email:a@x.com": true}}
	svc, _ := newService(api)

	_, err := svc.Submit(context.Background(), emailRequest("a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, 0, api.existsN)
	assert.Len(t, api.adds, 1)
}

func TestSubmit_RemoteExistsFailureIsIgnored(t *testing.T) {
	api := &fakeAPI{existsErr: errors.New("connection refused")}
	svc, _ := newService(api, WithRemoteExists(true))

	_, err := svc.Submit(context.Background(), emailRequest("a@x.com"))
	require.NoError(t, err)
	assert.Equal(t, 1, api.existsN)
	assert.Len(t, api.adds, 1)
}

func TestSubmit_ConflictIsDuplicate(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{addErr: &waitlist.APIError{Status: http.StatusConflict, Message: "already registered"}}
	svc, tr := newService(api)

	_, err := svc.Submit(ctx, emailRequest("a@x.com"))
	assert.True(t, errors.Is(err, ErrDuplicate))
	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.True(t, dup.Remote)
	assert.Empty(t, tr.Records(ctx), "a 409 is not a successful add")
}

func TestSubmit_APIErrorNotRecorded(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{addErr: &waitlist.APIError{Status: http.StatusInternalServerError, Message: "Server temporarily unavailable. Please try again later."}}
	svc, tr := newService(api)

	_, err := svc.Submit(ctx, emailRequest("a@x.com"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDuplicate))
	assert.False(t, tr.Has(ctx, tracker.KindEmail, "a@x.com"))
	assert.Equal(t, "Server temporarily unavailable. Please try again later.", UserMessage(err))
}

func TestSubmit_RejectedNotRecorded(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{addResp: &waitlist.AddResponse{Success: false, Error: "waitlist closed"}}
	svc, tr := newService(api)

	resp, err := svc.Submit(ctx, emailRequest("a@x.com"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
	require.NotNil(t, resp)
	assert.False(t, resp.Success)
	assert.False(t, tr.Has(ctx, tracker.KindEmail, "a@x.com"))
	assert.Equal(t, "waitlist closed", UserMessage(err))
}

func TestSubmit_InvalidInputNeverCallsAPI(t *testing.T) {
	api := &fakeAPI{}
	svc, _ := newService(api, WithRemoteExists(true))

	_, err := svc.Submit(context.Background(), Request{Kind: tracker.KindEmail, Value: "nope", FirstName: "F", LastName: "L"})
	assert.True(t, errors.Is(err, ErrInvalidEmail))
	assert.Equal(t, "Enter a valid email address.", UserMessage(err))
	assert.Empty(t, api.adds)
	assert.Equal(t, 0, api.existsN)
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{existsFor: map[string]bool{"email:remote@x.com": true}}
	svc, tr := newService(api, WithRemoteExists(true))
	tr.Add(ctx, tracker.KindEmail, "local@x.com")

	ok, err := svc.Check(ctx, tracker.KindEmail, "LOCAL@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Check(ctx, tracker.KindEmail, " remote@x.com ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Check(ctx, tracker.KindEmail, "new@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Check(ctx, "fax", "1")
	assert.True(t, errors.Is(err, ErrInvalidKind))
}

func TestCheck_RemoteHitLeavesTrackerUntouched(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{existsFor: map[string]bool{"email:a@x.com": true}}
	svc, tr := newService(api, WithRemoteExists(true))

	ok, err := svc.Check(ctx, tracker.KindEmail, "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, tr.Records(ctx))

	ok, err = svc.Check(ctx, tracker.KindEmail, "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, api.existsN, "every check asks the API again")
	assert.Empty(t, api.adds)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "First name is required.", UserMessage(ErrFirstNameRequired))
	assert.Equal(t, "Network error. Please check your connection and try again.", UserMessage(errors.New("dial tcp: refused")))
	assert.Equal(t, "Failed to add to waitlist.", UserMessage(&RejectedError{}))
}
