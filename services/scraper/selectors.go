package scraper

import "fmt"

// Selectors into the property-management UI. The pages are
// server-rendered with stable ids and class names but no API, so these
// paths are the contract; when the vendor reshuffles the markup this
// file is what changes.
const (
	selLoginSubmit     = `button[type=submit]`
	selLoginUsername   = `#username`
	selLoginPassword   = `#password`
	selOtpCode         = `#code`
	selRememberBrowser = `#rememberBrowser`

	// first navigation link in the application header, the landing
	// marker confirming a logged-in session
	selFrontDeskLink = `#app > div > div.application-header > div.component.navigation > ul.navigation-links > li:nth-child(1) > a`

	// either the OTP challenge or the landing page may follow the
	// credential submit
	selOtpOrFrontDesk = selOtpCode + `, ` + selFrontDeskLink

	// the "Arrivals" header of the front desk table, the marker that a
	// day's table view finished rendering
	selArrivalsHeader = `#app > div > div.application-body > div > table > tbody:nth-child(1) > tr:nth-child(1) > th > h2`

	selDateInput    = `#date_input_input`
	selDateSearchGo = `#app > div > div.application-body > div > div.component.front-desk-form > form > div.component.tr-button.presentation-standard.precedence-primary > button > div > div`

	// reservation detail page
	selCustomerBody  = `#app > div > div.application-body > div > div.reservation-page-body > div > div > div.reservation-details-column.customer > div.component.assign-customer > div.customer-body`
	selCustomerPhone = `.customer-phone > .component > a`
	selCustomerName  = `#app > div > div.application-body > div > div.reservation-page-body > div > div > div.reservation-details-column.customer > div.component.assign-customer > div.customer-header > div.customer-area > div.component.customer-name.small.has-link > a`

	// guest profile stay-history table
	selHistoryTable = `#app > div > div.application-body > div > div.customer-details-page-body > div > div > table > tbody`

	// blackout page
	selBlackoutCheckbox = `[class="blackout-room-id-date"]`
	selBlackoutSave     = `button[class="save"]`
)

// selTableRow addresses one row of one row group of the front desk
// table. Groups are tbody 1..3 (check-ins, check-outs, stayovers),
// data rows start below a two-row group header.
func selTableRow(group, row int) string {
	return fmt.Sprintf(
		`#app > div > div.application-body > div > table > tbody:nth-child(%d) > tr:nth-child(%d)`,
		group, row,
	)
}

func selHistoryRow(row int) string {
	return fmt.Sprintf(`%s > tr:nth-child(%d)`, selHistoryTable, row)
}

func selRoomByName(name string) string {
	return fmt.Sprintf(`[class="room"][data-room-name=%q]`, name)
}

func selRoomBlackoutDate(roomName, date string) string {
	return fmt.Sprintf(
		`[class="room"][data-room-name=%q] [class="blackout-room-id-date"][data-date=%q]`,
		roomName, date,
	)
}
