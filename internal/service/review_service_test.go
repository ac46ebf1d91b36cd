package service

import (
	"errors"
	"testing"

	"github.com/meeplemarket/internal/models"
	"github.com/meeplemarket/internal/repository"

	"gorm.io/gorm"
)

func newReviewService(db *gorm.DB) *ReviewService {
	return NewReviewService(repository.NewReviewRepository(db), repository.NewProductRepository(db))
}

func TestAddReviewAndAverage(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := newReviewService(db)

	review, err := svc.Add(AddReviewInput{
		ProductID: f.Catan.ID,
		UserID:    f.User.ID,
		Rating:    5,
		Comment:   "  交易谈判的经典，常驻桌面  ",
	})
	if err != nil {
		t.Fatalf("add review failed: %v", err)
	}
	if review.Comment != "交易谈判的经典，常驻桌面" {
		t.Fatalf("comment should be trimmed, got %q", review.Comment)
	}

	if _, err := svc.Add(AddReviewInput{ProductID: f.Catan.ID, UserID: f.Staff.ID, Rating: 2}); err != nil {
		t.Fatalf("second user review failed: %v", err)
	}

	result, err := svc.ListByProduct(f.Catan.ID, 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("total want 2 got %d", result.Total)
	}
	if result.AvgRating != 3.5 {
		t.Fatalf("avg rating want 3.5 got %v", result.AvgRating)
	}
}

func TestAddReviewRejectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := newReviewService(db)

	if _, err := svc.Add(AddReviewInput{ProductID: f.Catan.ID, UserID: f.User.ID, Rating: 4}); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	if _, err := svc.Add(AddReviewInput{ProductID: f.Catan.ID, UserID: f.User.ID, Rating: 1}); !errors.Is(err, ErrReviewExists) {
		t.Fatalf("want ErrReviewExists got %v", err)
	}
}

func TestAddReviewValidatesRatingAndProduct(t *testing.T) {
	db := newTestDB(t)
	f := seedStore(t, db)
	svc := newReviewService(db)

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Add(AddReviewInput{ProductID: f.Catan.ID, UserID: f.User.ID, Rating: rating}); !errors.Is(err, ErrReviewRatingInvalid) {
			t.Fatalf("rating %d want ErrReviewRatingInvalid got %v", rating, err)
		}
	}

	if _, err := svc.Add(AddReviewInput{ProductID: 9999, UserID: f.User.ID, Rating: 3}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want ErrProductNotFound got %v", err)
	}

	if err := db.Model(&models.Product{}).Where("id = ?", f.Catan.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}
	if _, err := svc.Add(AddReviewInput{ProductID: f.Catan.ID, UserID: f.User.ID, Rating: 3}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("inactive product want ErrProductNotFound got %v", err)
	}
}
