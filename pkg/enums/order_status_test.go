package enums

import "testing"

func TestOrderStatusMessages(t *testing.T) {
	want := map[OrderStatus]string{
		OrderStatusNew:             "order placed",
		OrderStatusProcessing:      "florist started work",
		OrderStatusReady:           "bouquet ready",
		OrderStatusCourierAssigned: "courier assigned",
		OrderStatusInDelivery:      "order en route",
		OrderStatusDelivered:       "order delivered",
		OrderStatusCancelled:       "order cancelled",
	}
	for status, msg := range want {
		if got := status.Message(); got != msg {
			t.Fatalf("status %s: expected %q got %q", status, msg, got)
		}
	}
	if len(OrderStatuses()) != len(want) {
		t.Fatalf("expected %d statuses, got %d", len(want), len(OrderStatuses()))
	}
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("courier_assigned")
	if err != nil || got != OrderStatusCourierAssigned {
		t.Fatalf("unexpected parse result %q err=%v", got, err)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if OrderStatus("shipped").IsValid() {
		t.Fatal("unknown status must be invalid")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, status := range OrderStatuses() {
		terminal := status == OrderStatusDelivered || status == OrderStatusCancelled
		if status.IsTerminal() != terminal {
			t.Fatalf("status %s terminal=%v", status, status.IsTerminal())
		}
	}
}

func TestPaymentEnums(t *testing.T) {
	if _, err := ParsePaymentMethod("card_courier"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParsePaymentMethod("crypto"); err == nil {
		t.Fatal("expected error for unknown method")
	}
	if !PaymentStatusPending.IsValid() || PaymentStatus("refunded").IsValid() {
		t.Fatal("unexpected payment status validity")
	}
}

func TestHapticKindGroups(t *testing.T) {
	if !HapticMedium.IsImpact() || HapticMedium.IsNotification() {
		t.Fatal("medium should be an impact haptic")
	}
	if !HapticSuccess.IsNotification() || HapticSuccess.IsImpact() {
		t.Fatal("success should be a notification haptic")
	}
	if HapticSelection.IsImpact() || HapticSelection.IsNotification() {
		t.Fatal("selection is neither impact nor notification")
	}
}
