// Package imagesets stores administrator uploaded reference images: the
// work calendar, the time sheet template and filled in I-9 / W-4 samples.
package imagesets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"onboarding/internal/platform/docstore"
)

// FileField is the multipart field carrying the images.
const FileField = "image"

var (
	ErrMissingImages = errors.New("no images uploaded")
	ErrNotFound      = errors.New("image set not found")
)

type Kind struct {
	Name  string
	Label string
	Table string
}

var (
	Calendar       = Kind{Name: "calendar", Label: "Calendar", Table: "calendars"}
	AdminTimeSheet = Kind{Name: "adminTimeSheet", Label: "Admin time sheet", Table: "admin_timesheets"}
	ExampleI9      = Kind{Name: "exampleI9", Label: "Example I9 form", Table: "example_i9_forms"}
	ExampleW4      = Kind{Name: "exampleW4", Label: "Example W4 form", Table: "example_w4_forms"}
	AdminI9        = Kind{Name: "adminI9", Label: "I9Form", Table: "admin_i9_forms"}
	AdminW4        = Kind{Name: "adminW4", Label: "W4Form", Table: "admin_w4_forms"}
)

var Kinds = []Kind{Calendar, AdminTimeSheet, ExampleI9, ExampleW4, AdminI9, AdminW4}

type ImageSet struct {
	docstore.Meta
	Images  []string `json:"image"`
	Example string   `json:"example,omitempty"`
}

type Service struct {
	kind  Kind
	store docstore.Store
}

func NewService(kind Kind, store docstore.Store) *Service {
	return &Service{kind: kind, store: store}
}

func (s *Service) Kind() Kind {
	return s.kind
}

func (s *Service) Create(ctx context.Context, userID string, images []string, example string) (ImageSet, error) {
	images = compact(images)
	if len(images) == 0 {
		return ImageSet{}, ErrMissingImages
	}
	set := ImageSet{Images: images, Example: strings.TrimSpace(example)}
	row, err := s.store.Insert(ctx, userID, set)
	if err != nil {
		return ImageSet{}, fmt.Errorf("store %s: %w", s.kind.Name, err)
	}
	return decode(row)
}

// Latest returns the most recently uploaded set.
func (s *Service) Latest(ctx context.Context) (ImageSet, error) {
	return load(s.store.Latest(ctx, ""))
}

func (s *Service) List(ctx context.Context, page, limit int) ([]ImageSet, docstore.Pagination, error) {
	return docstore.Fetch[ImageSet](ctx, s.store, "", page, limit)
}

func (s *Service) Get(ctx context.Context, id string) (ImageSet, error) {
	return load(s.store.Get(ctx, id))
}

// Replace swaps the images when new ones were uploaded and the example text
// when one was sent. Anything not supplied is kept.
func (s *Service) Replace(ctx context.Context, id string, images []string, example *string) (ImageSet, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return ImageSet{}, err
	}
	if images = compact(images); len(images) > 0 {
		current.Images = images
	}
	if example != nil {
		current.Example = strings.TrimSpace(*example)
	}
	row, err := s.store.Replace(ctx, id, ImageSet{Images: current.Images, Example: current.Example})
	if err != nil {
		return ImageSet{}, mapStoreErr(err)
	}
	return decode(row)
}

func (s *Service) Delete(ctx context.Context, id string) (ImageSet, error) {
	return load(s.store.Delete(ctx, id))
}

func compact(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}

func load(row docstore.Row, err error) (ImageSet, error) {
	if err != nil {
		return ImageSet{}, mapStoreErr(err)
	}
	return decode(row)
}

func decode(row docstore.Row) (ImageSet, error) {
	var set ImageSet
	if err := docstore.Decode(row, &set); err != nil {
		return ImageSet{}, err
	}
	return set, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
