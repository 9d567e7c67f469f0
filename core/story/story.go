package story

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/achievement"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

// Kinds
const (
	KindPDF   = "pdf"
	KindVideo = "video"
)

var (
	// errors
	ErrNotFound          = errors.New("story not found")
	ErrUploadNotAllowed  = errors.New("only students and teachers can upload stories")
	ErrUnsupportedFormat = errors.New("stories must be PDF documents or videos")

	// MaxUploadSize bounds the size of an uploaded story file.
	MaxUploadSize int64 = 200 << 20

	kindsByContentType = map[string]string{
		"application/pdf":  KindPDF,
		"video/mp4":        KindVideo,
		"video/webm":       KindVideo,
		"video/quicktime":  KindVideo,
		"video/x-matroska": KindVideo,
	}
	contentTypesByExt = map[string]string{
		".pdf":  "application/pdf",
		".mp4":  "video/mp4",
		".m4v":  "video/mp4",
		".webm": "video/webm",
		".mov":  "video/quicktime",
		".mkv":  "video/x-matroska",
	}
)

type Story struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   string    `json:"summary"`
	Kind      string    `json:"kind"`
	BlobKey   string    `json:"-"`
	FileURL   string    `json:"file_url"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewStory contains the information needed to create a new Story.
type NewStory struct {
	Title   string `json:"title" form:"title" validate:"required,notblank,max=120"`
	Summary string `json:"summary" form:"summary" validate:"max=1000"`
}

func (ns *NewStory) Validate(validate *validator.Validate) error {
	ns.Title = core.CleanString(ns.Title)
	ns.Summary = strings.TrimSpace(ns.Summary)
	return validate.Struct(ns)
}

// File is an uploaded story file.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Kind returns the story kind and the content type of f. The content type is guessed from
// the file extension when the declared one is not supported.
func (f File) Kind() (string, string, error) {
	ct := f.ContentType
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	}
	if _, ok := kindsByContentType[ct]; !ok {
		ct = contentTypesByExt[strings.ToLower(path.Ext(f.Name))]
	}
	kind, ok := kindsByContentType[ct]
	if !ok {
		return "", "", ErrUnsupportedFormat
	}
	return kind, ct, nil
}

type (
	// BlobStore keeps the uploaded story files.
	BlobStore interface {
		Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (url string, err error)
		Delete(ctx context.Context, key string) error
	}

	Repository interface {
		// Create inserts s and increments the stories uploaded count of its author in one transaction.
		Create(ctx context.Context, s Story) (Story, error)
		GetByID(ctx context.Context, id string) (Story, error)
		ListByAuthor(ctx context.Context, authorID string) ([]Story, error)
	}

	// Checker runs the achievement checks of a user; satisfied by *achievement.Engine.
	Checker interface {
		Check(ctx context.Context, userID string) ([]achievement.AdvanceResult, error)
	}

	Service struct {
		repo    Repository
		blobs   BlobStore
		checker Checker
		logger  core.Logger
	}
)

func NewService(repo Repository, blobs BlobStore, checker Checker, logger core.Logger) (*Service, error) {
	if err := vala.BeginValidation().Validate(
		core.IsNotNil(repo, "repo"),
		core.IsNotNil(blobs, "blobs"),
		core.IsNotNil(checker, "checker"),
		core.IsNotNil(logger, "logger"),
	).Check(); err != nil {
		return nil, core.NewConfigError("story.Service", "%v", err)
	}
	return &Service{repo: repo, blobs: blobs, checker: checker, logger: logger}, nil
}

// Create stores the file of a new story written by author, counts it and runs the achievement checks.
// A failed check does not fail the upload: the advancements are picked up by the next check.
func (svc *Service) Create(ctx context.Context, author user.User, ns NewStory, file File) (Story, []achievement.AdvanceResult, error) {
	if !author.CanUploadStories() {
		return Story{}, nil, ErrUploadNotAllowed
	}
	kind, contentType, err := file.Kind()
	if err != nil {
		return Story{}, nil, err
	}
	if file.Size > MaxUploadSize {
		return Story{}, nil, core.NewValidationError(nil, core.FieldError{
			Field: "file",
			Error: fmt.Sprintf("file cannot be larger than %d MB", MaxUploadSize>>20),
		})
	}

	id := uuid.New().String()
	s := Story{
		ID:        id,
		AuthorID:  author.ID,
		Title:     ns.Title,
		Slug:      slug.Make(ns.Title),
		Summary:   ns.Summary,
		Kind:      kind,
		Size:      file.Size,
		CreatedAt: time.Now().UTC(),
	}
	if s.Slug == "" {
		s.Slug = "story"
	}
	s.BlobKey = fmt.Sprintf("stories/%s/%s-%s%s", author.ID, id, s.Slug, strings.ToLower(path.Ext(file.Name)))

	if s.FileURL, err = svc.blobs.Put(ctx, s.BlobKey, file.Body, file.Size, contentType); err != nil {
		return Story{}, nil, errors.Wrap(err, "uploading story file")
	}

	created, err := svc.repo.Create(ctx, s)
	if err != nil {
		if dErr := svc.blobs.Delete(ctx, s.BlobKey); dErr != nil {
			svc.logger.Warn(fmt.Sprintf("story.Create: orphan blob %s: %v", s.BlobKey, dErr), dErr)
		}
		return Story{}, nil, errors.Wrap(err, "creating story")
	}

	advanced, err := svc.checker.Check(ctx, author.ID)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("story.Create: checking achievements of %s: %v", author.ID, err), err)
	}
	return created, advanced, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Story, error) {
	return svc.repo.GetByID(ctx, id)
}

// ListByAuthor returns the stories of authorID, most recent first.
func (svc *Service) ListByAuthor(ctx context.Context, authorID string) ([]Story, error) {
	return svc.repo.ListByAuthor(ctx, authorID)
}
