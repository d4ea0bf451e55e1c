package domain

// ValidLocations is the closed set accepted on submit. Dataset rows are
// trusted and not checked against it.
var ValidLocations = []string{
	"Albuquerque, New Mexico",
	"Carlsbad, California",
	"Chula Vista, California",
	"Colorado Springs, Colorado",
	"Denver, Colorado",
	"El Cajon, California",
	"El Paso, Texas",
	"Escondido, California",
	"Fresno, California",
	"La Mesa, California",
	"Las Vegas, Nevada",
	"Los Angeles, California",
	"Oceanside, California",
	"Phoenix, Arizona",
	"Sacramento, California",
	"Salt Lake City, Utah",
	"San Diego, California",
	"Tucson, Arizona",
}

var validLocationSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(ValidLocations))
	for _, l := range ValidLocations {
		m[l] = struct{}{}
	}
	return m
}()

// IsValidLocation is an exact, case-sensitive match.
func IsValidLocation(loc string) bool {
	_, ok := validLocationSet[loc]
	return ok
}
