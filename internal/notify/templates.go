package notify

import (
	"fmt"

	"github.com/wolfman30/smart-hospital/internal/inventory"
)

// DonationRequestSubject is the subject of a donation appeal.
func DonationRequestSubject(bt inventory.BloodType) string {
	return fmt.Sprintf("Urgent Appeal: %s Blood Needed - Save a Life Today", bt)
}

// DonationRequestBody is the donation appeal sent to a registered patient.
func DonationRequestBody(hospital, name string, bt inventory.BloodType) string {
	return fmt.Sprintf(`Dear %[2]s,

We hope you are in good health.

This is an urgent appeal from %[1]s. We are currently facing a critical shortage of **%[3]s** blood in our inventory.

As a registered member of our hospital network, we are reaching out to ask for your support. If you or anyone you know is eligible to donate, please visit our blood bank at your earliest convenience. Your donation could save a life today.

Location: %[1]s, Block A.
Hours: 9 AM - 8 PM.

Thank you for your kindness and support.

Sincerely,
Hospital Administration`, hospital, name, bt)
}

// LowStockAlertSubject is the subject of an operator low-stock alert.
func LowStockAlertSubject(bt inventory.BloodType) string {
	return fmt.Sprintf("URGENT: Low Stock Alert - %s", bt)
}

// LowStockAlertBody is the operator low-stock alert.
func LowStockAlertBody(bt inventory.BloodType, units int) string {
	return fmt.Sprintf("Warning! The stock for %s has dropped to %d units. Please contact donors immediately.", bt, units)
}
