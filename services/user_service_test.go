package services_test

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"store-rating-api/models"
	"store-rating-api/services"
)

func TestAverageRatingRoundedToOneDecimal(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)
	_, shop := seedOwnerWithShop(t, db, "owner@example.com", "Corner Store")
	u1 := seedUser(t, db, "A", "a@example.com", "secret123", models.RoleUser)
	u2 := seedUser(t, db, "B", "b@example.com", "secret123", models.RoleUser)
	u3 := seedUser(t, db, "C", "c@example.com", "secret123", models.RoleUser)
	seedRating(t, db, u1.ID, shop.ID, 1, "")
	seedRating(t, db, u2.ID, shop.ID, 2, "")
	seedRating(t, db, u3.ID, shop.ID, 2, "")

	stores, err := svc.ListStores("", "")
	if err != nil {
		t.Fatalf("list stores: %v", err)
	}
	if len(stores) != 1 {
		t.Fatalf("got %d stores, want 1", len(stores))
	}
	// mean of 1,2,2 is 1.666..., rounded to one decimal
	if stores[0].Rating != 1.7 {
		t.Fatalf("average = %v, want 1.7", stores[0].Rating)
	}
	if stores[0].TotalRatings != 3 {
		t.Fatalf("count = %d, want 3", stores[0].TotalRatings)
	}
}

func TestAverageRatingEmptyIsZero(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)
	seedOwnerWithShop(t, db, "owner@example.com", "Quiet Store")

	stores, err := svc.ListStores("", "")
	if err != nil {
		t.Fatalf("list stores: %v", err)
	}
	if stores[0].Rating != 0 || stores[0].TotalRatings != 0 {
		t.Fatalf("empty shop aggregate = %v/%d, want 0/0", stores[0].Rating, stores[0].TotalRatings)
	}
}

func TestSubmitRatingRejectsOutOfRange(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)
	_, shop := seedOwnerWithShop(t, db, "owner@example.com", "Corner Store")
	user := seedUser(t, db, "A", "a@example.com", "secret123", models.RoleUser)

	for _, v := range []int{0, 6, -1} {
		if _, err := svc.SubmitRating(user.ID, shop.ID, v, ""); !errors.Is(err, services.ErrInvalidRatingValue) {
			t.Fatalf("submit value %d: err = %v, want ErrInvalidRatingValue", v, err)
		}
		if _, err := svc.UpdateRating(user.ID, shop.ID, v, ""); !errors.Is(err, services.ErrInvalidRatingValue) {
			t.Fatalf("update value %d: err = %v, want ErrInvalidRatingValue", v, err)
		}
	}
}

func TestSubmitRatingDuplicateFails(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)
	_, shop := seedOwnerWithShop(t, db, "owner@example.com", "Corner Store")
	user := seedUser(t, db, "A", "a@example.com", "secret123", models.RoleUser)

	if _, err := svc.SubmitRating(user.ID, shop.ID, 4, "nice"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.SubmitRating(user.ID, shop.ID, 5, "even nicer"); !errors.Is(err, services.ErrDuplicateRating) {
		t.Fatalf("second submit: err = %v, want ErrDuplicateRating", err)
	}

	var count int64
	db.Model(&models.Rating{}).Where("user_id = ? AND shop_id = ?", user.ID, shop.ID).Count(&count)
	if count != 1 {
		t.Fatalf("rating rows = %d, want 1", count)
	}
}

func TestSubmitRatingUnknownTargets(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)
	_, shop := seedOwnerWithShop(t, db, "owner@example.com", "Corner Store")
	user := seedUser(t, db, "A", "a@example.com", "secret123", models.RoleUser)

	if _, err := svc.SubmitRating(user.ID, shop.ID+99, 4, ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing shop: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.SubmitRating(user.ID+99, shop.ID, 4, ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing user: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateRatingOverwritesInPlace(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)
	_, shop := seedOwnerWithShop(t, db, "owner@example.com", "Corner Store")
	user := seedUser(t, db, "A", "a@example.com", "secret123", models.RoleUser)

	if _, err := svc.UpdateRating(user.ID, shop.ID, 3, ""); !errors.Is(err, services.ErrRatingNotFound) {
		t.Fatalf("update before submit: err = %v, want ErrRatingNotFound", err)
	}

	first, err := svc.SubmitRating(user.ID, shop.ID, 2, "meh")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	updated, err := svc.UpdateRating(user.ID, shop.ID, 5, "much better")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != first.ID {
		t.Fatalf("update created a new row: id %d -> %d", first.ID, updated.ID)
	}
	if updated.Value != 5 || updated.Comment != "much better" {
		t.Fatalf("updated rating = %+v", updated)
	}

	// the aggregate reflects the overwrite immediately
	stores, err := svc.ListStores("", "")
	if err != nil {
		t.Fatalf("list stores: %v", err)
	}
	if stores[0].Rating != 5.0 {
		t.Fatalf("average after update = %v, want 5", stores[0].Rating)
	}
}

func TestStoreDetailsIncludesCallerRating(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)
	_, shop := seedOwnerWithShop(t, db, "owner@example.com", "Corner Store")
	me := seedUser(t, db, "Me", "me@example.com", "secret123", models.RoleUser)
	other := seedUser(t, db, "Other", "other@example.com", "secret123", models.RoleUser)
	seedRating(t, db, me.ID, shop.ID, 4, "mine")
	seedRating(t, db, other.ID, shop.ID, 2, "")

	detail, err := svc.StoreDetails(me.ID, shop.ID)
	if err != nil {
		t.Fatalf("store details: %v", err)
	}
	if detail.MyRating == nil || detail.MyRating.Value != 4 {
		t.Fatalf("my rating = %+v, want value 4", detail.MyRating)
	}
	if detail.Rating != 3.0 {
		t.Fatalf("average = %v, want 3", detail.Rating)
	}

	if _, err := svc.StoreDetails(me.ID, shop.ID+99); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing shop: err = %v, want ErrNotFound", err)
	}
}

func TestResetPassword(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewUserService(db)
	seedUser(t, db, "A", "a@example.com", "oldsecret", models.RoleUser)

	if err := svc.ResetPassword("a@example.com", "wrong", "newsecret"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("wrong old password: err = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ResetPassword("missing@example.com", "oldsecret", "newsecret"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing user: err = %v, want ErrNotFound", err)
	}
	if err := svc.ResetPassword("a@example.com", "oldsecret", "newsecret"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	var fresh models.User
	if err := db.Where("email = ?", "a@example.com").First(&fresh).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(fresh.PasswordHash), []byte("newsecret")) != nil {
		t.Fatal("new password does not validate")
	}
}
