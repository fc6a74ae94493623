package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"secondspin/internal/apperr"
	"secondspin/internal/media"
	"secondspin/internal/repos"
	"secondspin/internal/services"
)

type fakeUploader struct{ fail bool }

func (f *fakeUploader) Upload(_ context.Context, file media.File) (string, error) {
	if f.fail {
		return "", errors.New("upload gateway down")
	}
	return "mem://" + file.Name, nil
}

func newCatalog(t *testing.T) *services.CatalogService {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return services.NewCatalogService(repos.NewListingRepo(db), &fakeUploader{})
}

func lampFields() services.CreateFields {
	return services.CreateFields{
		Name:        "Desk Lamp",
		Description: "A lamp for desks",
		Category:    "Home & Garden",
		SubCategory: "Decor",
		Condition:   "Good",
		Price:       "15",
	}
}

func oneImage() []media.File {
	return []media.File{{Name: "main.jpg", Content: strings.NewReader("img")}}
}

// Seeded demo users u-alice and u-bob stand in for authenticated identities.

func TestCreateSetsSellerAndDefaults(t *testing.T) {
	svc := newCatalog(t)
	f := lampFields()
	f.Condition = "" // absent: should default
	p, err := svc.Create(context.Background(), "u-alice", f, oneImage())
	if err != nil {
		t.Fatal(err)
	}
	if p.Seller.ID != "u-alice" {
		t.Fatalf("seller = %q, want creator identity", p.Seller.ID)
	}
	if p.Status != "active" || p.Condition != "Good" || p.Stock != 1 || p.Bestseller {
		t.Fatalf("bad defaults: %+v", p)
	}
	if len(p.Images) != 1 || p.Images[0] != "mem://main.jpg" {
		t.Fatalf("images = %v", p.Images)
	}
	if p.CreatedAt == "" {
		t.Fatal("creation timestamp missing")
	}

	got, err := svc.GetById(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Seller.ID != "u-alice" || got.Seller.Name != "Alice" {
		t.Fatalf("seller not resolved: %+v", got.Seller)
	}
}

func TestCreateRequiresImages(t *testing.T) {
	svc := newCatalog(t)
	_, err := svc.Create(context.Background(), "u-alice", lampFields(), nil)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc := newCatalog(t)
	cases := map[string]services.CreateFields{
		"missing name":    {Description: "d", Category: "c", SubCategory: "s", Price: "1"},
		"negative price":  {Name: "n", Description: "d", Category: "c", SubCategory: "s", Price: "-3"},
		"malformed price": {Name: "n", Description: "d", Category: "c", SubCategory: "s", Price: "abc"},
		"NaN price":       {Name: "n", Description: "d", Category: "c", SubCategory: "s", Price: "NaN"},
		"infinite price":  {Name: "n", Description: "d", Category: "c", SubCategory: "s", Price: "Inf"},
		"malformed sizes": {Name: "n", Description: "d", Category: "c", SubCategory: "s", Price: "1", Sizes: "S,M"},
		"bad condition":   {Name: "n", Description: "d", Category: "c", SubCategory: "s", Price: "1", Condition: "Mint"},
	}
	for name, f := range cases {
		if _, err := svc.Create(context.Background(), "u-alice", f, oneImage()); apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("%s: want ValidationError, got %v", name, err)
		}
	}
}

func TestCreateIgnoresPayloadSeller(t *testing.T) {
	// The request payload has no seller slot at all; identity comes from
	// the verified requester. This pins that contract at the service level.
	svc := newCatalog(t)
	p, err := svc.Create(context.Background(), "u-bob", lampFields(), oneImage())
	if err != nil {
		t.Fatal(err)
	}
	if p.Seller.ID != "u-bob" {
		t.Fatalf("seller = %q, want u-bob", p.Seller.ID)
	}
}

func TestUploadFailureAbortsCreate(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	svc := services.NewCatalogService(repos.NewListingRepo(db), &fakeUploader{fail: true})

	_, err = svc.Create(context.Background(), "u-alice", lampFields(), oneImage())
	if apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("want UnexpectedError, got %v", err)
	}
	products, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 0 {
		t.Fatalf("no listing should persist after a failed upload, got %d", len(products))
	}
}

func TestListFiltersInactiveButOwnerSees(t *testing.T) {
	svc := newCatalog(t)
	p, err := svc.Create(context.Background(), "u-alice", lampFields(), oneImage())
	if err != nil {
		t.Fatal(err)
	}
	inactive := "inactive"
	if _, err := svc.Update(context.Background(), "u-alice", p.ID, services.UpdateFields{Status: &inactive}, nil); err != nil {
		t.Fatal(err)
	}

	public, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range public {
		if l.ID == p.ID {
			t.Fatal("inactive listing leaked into public browse")
		}
	}

	mine, err := svc.ListByOwner("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != p.ID || mine[0].Status != "inactive" {
		t.Fatalf("owner should see inactive listing, got %+v", mine)
	}

	// Still fetchable by id regardless of status.
	got, err := svc.GetById(p.ID)
	if err != nil || got.Status != "inactive" {
		t.Fatalf("GetById should ignore status, got %+v err %v", got, err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := newCatalog(t)
	first, err := svc.Create(context.Background(), "u-alice", lampFields(), oneImage())
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	f := lampFields()
	f.Name = "Floor Lamp"
	second, err := svc.Create(context.Background(), "u-alice", f, oneImage())
	if err != nil {
		t.Fatal(err)
	}

	products, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 || products[0].ID != second.ID || products[1].ID != first.ID {
		t.Fatalf("want newest-first ordering, got %+v", products)
	}
}

func TestSearchCaseInsensitiveAcrossFields(t *testing.T) {
	svc := newCatalog(t)
	f := services.CreateFields{
		Name:        "Vintage Lamp",
		Description: "Brass reading light",
		Category:    "Home & Garden",
		SubCategory: "Decor",
		Price:       "30",
	}
	p, err := svc.Create(context.Background(), "u-alice", f, oneImage())
	if err != nil {
		t.Fatal(err)
	}

	for _, q := range []string{"lamp", "LAMP", "brass", "garden", "decor"} {
		got, err := svc.Search(q)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].ID != p.ID {
			t.Fatalf("Search(%q) = %+v, want the lamp", q, got)
		}
	}

	got, err := svc.Search("bicycle")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("Search(bicycle) should be empty, got %+v", got)
	}
}

func TestSearchMatchesWildcardsLiterally(t *testing.T) {
	svc := newCatalog(t)
	if _, err := svc.Create(context.Background(), "u-alice", lampFields(), oneImage()); err != nil {
		t.Fatal(err)
	}
	sale := services.CreateFields{
		Name:        "Wool Coat",
		Description: "100% wool, under_scored label",
		Category:    "Clothing",
		SubCategory: "Outerwear",
		Price:       "40",
	}
	coat, err := svc.Create(context.Background(), "u-alice", sale, oneImage())
	if err != nil {
		t.Fatal(err)
	}

	// LIKE metacharacters in the query match only themselves: these all
	// appear literally in the coat's description and nowhere in the lamp.
	for _, q := range []string{"%", "_", "100%", "under_scored"} {
		got, err := svc.Search(q)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].ID != coat.ID {
			t.Fatalf("Search(%q) = %d listings, want only the coat", q, len(got))
		}
	}

	// "_" as a wildcard would bridge the space in "Desk Lamp"; literally
	// it matches nothing here.
	got, err := svc.Search("desk_lamp")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("Search(desk_lamp) = %d listings, want none", len(got))
	}
}

func TestSearchExcludesInactive(t *testing.T) {
	svc := newCatalog(t)
	p, err := svc.Create(context.Background(), "u-alice", lampFields(), oneImage())
	if err != nil {
		t.Fatal(err)
	}
	inactive := "inactive"
	if _, err := svc.Update(context.Background(), "u-alice", p.ID, services.UpdateFields{Status: &inactive}, nil); err != nil {
		t.Fatal(err)
	}
	got, err := svc.Search("lamp")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("inactive listing matched search: %+v", got)
	}
}

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	svc := newCatalog(t)
	p, err := svc.Create(context.Background(), "u-alice", lampFields(), oneImage())
	if err != nil {
		t.Fatal(err)
	}

	price := "10"
	updated, err := svc.Update(context.Background(), "u-alice", p.ID, services.UpdateFields{Price: &price}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Price != 10 {
		t.Fatalf("price = %v, want 10", updated.Price)
	}
	if updated.Name != p.Name || updated.Category != p.Category || updated.Condition != p.Condition {
		t.Fatalf("omitted fields changed: %+v", updated)
	}
	if len(updated.Images) != 1 || updated.Images[0] != p.Images[0] {
		t.Fatalf("images replaced without new uploads: %v", updated.Images)
	}
	if updated.CreatedAt != p.CreatedAt {
		t.Fatal("creation timestamp mutated")
	}
}

func TestUpdateReplacesImagesWholesale(t *testing.T) {
	svc := newCatalog(t)
	p, err := svc.Create(context.Background(), "u-alice", lampFields(), oneImage())
	if err != nil {
		t.Fatal(err)
	}
	newFiles := []media.File{
		{Name: "front.jpg", Content: strings.NewReader("a")},
		{Name: "back.jpg", Content: strings.NewReader("b")},
	}
	updated, err := svc.Update(context.Background(), "u-alice", p.ID, services.UpdateFields{}, newFiles)
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Images) != 2 || updated.Images[0] != "mem://front.jpg" || updated.Images[1] != "mem://back.jpg" {
		t.Fatalf("images not replaced wholesale: %v", updated.Images)
	}
}

func TestOwnershipEndToEnd(t *testing.T) {
	svc := newCatalog(t)

	p, err := svc.Create(context.Background(), "u-alice", lampFields(), oneImage())
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetById(p.ID)
	if err != nil || got.Seller.ID != "u-alice" || got.Status != "active" {
		t.Fatalf("fresh listing wrong: %+v err %v", got, err)
	}

	// Non-owner update: rejected, no state change.
	price := "5"
	if _, err := svc.Update(context.Background(), "u-bob", p.ID, services.UpdateFields{Price: &price}, nil); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("want AuthorizationError for non-owner update, got %v", err)
	}
	got, _ = svc.GetById(p.ID)
	if got.Price != 15 {
		t.Fatalf("price mutated by rejected update: %v", got.Price)
	}

	// Owner update succeeds, other fields untouched.
	if _, err := svc.Update(context.Background(), "u-alice", p.ID, services.UpdateFields{Price: &price}, nil); err != nil {
		t.Fatal(err)
	}
	got, _ = svc.GetById(p.ID)
	if got.Price != 5 || got.Name != "Desk Lamp" {
		t.Fatalf("owner update wrong: %+v", got)
	}

	// Non-owner delete: rejected, listing survives.
	if err := svc.Delete("u-bob", p.ID); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("want AuthorizationError for non-owner delete, got %v", err)
	}
	if _, err := svc.GetById(p.ID); err != nil {
		t.Fatalf("listing removed by rejected delete: %v", err)
	}

	// Owner delete is a hard delete.
	if err := svc.Delete("u-alice", p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetById(p.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("want NotFoundError after delete, got %v", err)
	}
}

func TestUpdateMissingListing(t *testing.T) {
	svc := newCatalog(t)
	price := "5"
	if _, err := svc.Update(context.Background(), "u-alice", "no-such-id", services.UpdateFields{Price: &price}, nil); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if err := svc.Delete("u-alice", "no-such-id"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}
