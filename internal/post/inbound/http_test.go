package inbound

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/shandysiswandi/gosocial/internal/pkg/goerror"
	"github.com/shandysiswandi/gosocial/internal/pkg/jwt"
	"github.com/shandysiswandi/gosocial/internal/pkg/router"
	"github.com/shandysiswandi/gosocial/internal/post/entity"
	"github.com/shandysiswandi/gosocial/internal/post/usecase"
)

// stubUsecase records the inputs it receives. Methods a test does not
// override panic through the nil embedded interface.
type stubUsecase struct {
	uc

	createIn   usecase.CreatePostInput
	fileTypes  []string
	postIn     usecase.PostInput
	commentIn  usecase.CommentInput
	usersIn    usecase.UsersPostsInput
	myPostsErr error
}

func (s *stubUsecase) CreatePost(_ context.Context, in usecase.CreatePostInput) (*entity.Post, error) {
	s.createIn = in
	for _, f := range in.Files {
		s.fileTypes = append(s.fileTypes, f.ContentType)
	}
	return &entity.Post{ID: 11, AuthorID: 1, Content: in.Content}, nil
}

func (s *stubUsecase) FreezePost(_ context.Context, in usecase.PostInput) error {
	s.postIn = in
	return nil
}

func (s *stubUsecase) ReactComment(_ context.Context, in usecase.CommentInput) (*usecase.ReactOutput, error) {
	s.commentIn = in
	return &usecase.ReactOutput{Liked: true}, nil
}

func (s *stubUsecase) UsersPosts(_ context.Context, in usecase.UsersPostsInput) ([]entity.FeedPost, error) {
	s.usersIn = in
	return []entity.FeedPost{{Post: entity.Post{ID: 1}}, {Post: entity.Post{ID: 2}}}, nil
}

func (s *stubUsecase) MyPosts(context.Context) ([]entity.FeedPost, error) {
	return nil, s.myPostsErr
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func newServer(t *testing.T, stub *stubUsecase) http.Handler {
	t.Helper()

	ro := router.NewRouter(router.Config{})
	ro.SetAuthenticator(router.AuthenticatorFunc(func(context.Context, string) (jwt.Claims, error) {
		return jwt.Claims{UserID: 1, Role: jwt.RoleUser}, nil
	}))
	RegisterHTTPEndpoint(ro, stub)
	return ro
}

func do(t *testing.T, h http.Handler, method, target, contentType string, body io.Reader) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer token")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode body %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func multipartBody(t *testing.T, content string, files map[string][]byte) (string, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if err := mw.WriteField("content", content); err != nil {
		t.Fatalf("write field: %v", err)
	}
	for name, b := range files {
		fw, err := mw.CreateFormFile("attachments", name)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		if _, err := fw.Write(b); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return mw.FormDataContentType(), buf
}

func TestCreatePost(t *testing.T) {
	// Arrange
	stub := &stubUsecase{}
	h := newServer(t, stub)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	ct, body := multipartBody(t, "  hello world  ", map[string][]byte{"a.png": png})

	// Act
	status, env := do(t, h, http.MethodPost, "/api/v1/posts", ct, body)

	// Assert
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201", status)
	}
	if env.Message != "Post created" {
		t.Fatalf("message = %q", env.Message)
	}
	if stub.createIn.Content != "hello world" {
		t.Fatalf("content = %q, want trimmed", stub.createIn.Content)
	}
	if !slices.Equal(stub.fileTypes, []string{"image/png"}) {
		t.Fatalf("file types = %v", stub.fileTypes)
	}

	var data PostResponse
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.ID != "11" || data.AuthorID != "1" {
		t.Fatalf("data = %+v", data)
	}
}

func TestCreatePost_RequiresMultipart(t *testing.T) {
	// Arrange
	h := newServer(t, &stubUsecase{})

	// Act
	status, _ := do(t, h, http.MethodPost, "/api/v1/posts", "application/json", bytes.NewBufferString(`{"content":"hi"}`))

	// Assert
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestPathParams(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		check      func(t *testing.T, s *stubUsecase)
	}{
		{
			name:       "freeze post reads id",
			method:     http.MethodDelete,
			target:     "/api/v1/posts/5/freeze",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, s *stubUsecase) {
				if s.postIn.ID != 5 {
					t.Fatalf("post id = %d, want 5", s.postIn.ID)
				}
			},
		},
		{
			name:       "non numeric id",
			method:     http.MethodDelete,
			target:     "/api/v1/posts/abc/freeze",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "react comment reads both ids",
			method:     http.MethodPatch,
			target:     "/api/v1/posts/3/comments/4/react",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, s *stubUsecase) {
				if s.commentIn != (usecase.CommentInput{PostID: 3, CommentID: 4}) {
					t.Fatalf("comment input = %+v", s.commentIn)
				}
			},
		},
		{
			name:       "users posts parses the id list",
			method:     http.MethodGet,
			target:     "/api/v1/posts?user_ids=1,2",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, s *stubUsecase) {
				if !slices.Equal(s.usersIn.UserIDs, []int64{1, 2}) {
					t.Fatalf("user ids = %v", s.usersIn.UserIDs)
				}
			},
		},
		{
			name:       "users posts rejects garbage",
			method:     http.MethodGet,
			target:     "/api/v1/posts?user_ids=1,x",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			stub := &stubUsecase{}
			h := newServer(t, stub)

			// Act
			status, _ := do(t, h, tt.method, tt.target, "", nil)

			// Assert
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d", status, tt.wantStatus)
			}
			if tt.check != nil {
				tt.check(t, stub)
			}
		})
	}
}

func TestFeedMeta(t *testing.T) {
	// Arrange
	h := newServer(t, &stubUsecase{})

	// Act
	status, env := do(t, h, http.MethodGet, "/api/v1/posts?user_ids=7", "", nil)

	// Assert
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if got, _ := env.Meta["count"].(float64); got != 2 {
		t.Fatalf("meta count = %v, want 2", env.Meta["count"])
	}
}

func TestMyPosts_PropagatesError(t *testing.T) {
	// Arrange
	stub := &stubUsecase{myPostsErr: goerror.NewBusiness("User not found", goerror.CodeNotFound)}
	h := newServer(t, stub)

	// Act
	status, env := do(t, h, http.MethodGet, "/api/v1/posts/me", "", nil)

	// Assert
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if env.Message != "User not found" {
		t.Fatalf("message = %q", env.Message)
	}
}
