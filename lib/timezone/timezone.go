package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// the property's timezone comes from config, every date computation
// after startup must happen in it
func Set(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Location = loc
	return nil
}

// force the wall clock into the property's timezone because the host
// the scraper runs on may be anywhere, and the day-boundary rules here
// depend on <time.Time>.Hour()/Day()
func Now() time.Time {
	return time.Now().In(Location)
}
