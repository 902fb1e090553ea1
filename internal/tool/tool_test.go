package tool

import (
	"context"
	"testing"
)

func TestStatusBookable(t *testing.T) {
	bookable := []Status{StatusAvailable, StatusBooked, StatusBorrowed}
	for _, s := range bookable {
		if !s.Bookable() {
			t.Fatalf("expected %s bookable", s)
		}
	}
	if StatusMaintenance.Bookable() {
		t.Fatalf("expected maintenance not bookable")
	}
	if StatusRetired.Bookable() {
		t.Fatalf("expected retired not bookable")
	}
}

func TestServiceInputValidation(t *testing.T) {
	svc := NewService(NewRepo(nil))
	ctx := context.Background()

	if _, err := svc.AddTool(ctx, AddToolInput{Name: "   "}); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if _, err := svc.GetTool(ctx, ""); err == nil {
		t.Fatalf("expected error for blank id")
	}
}
