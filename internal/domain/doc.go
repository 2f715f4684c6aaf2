// Package domain models USGS earthquake feed data and turns it into map
// marker descriptors.
//
// # Data Source
//
// Events come from the USGS Earthquake Hazards Program summary feeds,
// published as GeoJSON at https://earthquake.usgs.gov/earthquakes/feed/v1.0/.
// The default feed is all_month.geojson: every event of any magnitude from
// the last 30 days, refreshed by USGS every minute.
//
// # Feed Conventions
//
// Coordinates:
//
//	geometry.coordinates = [longitude, latitude, depth]
//	Longitude/latitude are WGS-84 decimal degrees. Depth is kilometres below
//	the surface and may be slightly negative for shallow events located
//	above the geoid (e.g. -1.2 for events under mountains).
//
// Time:
//
//	properties.time is milliseconds since the Unix epoch, UTC.
//
// Magnitude:
//
//	properties.mag is a real number and may be null for events that have not
//	been reviewed. Small local events can carry negative magnitudes
//	(e.g. -0.5 ml).
//
// # Marker Encoding
//
// Radius encodes magnitude on a linear scale of [RadiusScale] metres per
// magnitude unit. Negative magnitudes are clamped to [MinRadius] so every
// event stays visible.
//
// Fill color encodes depth using six contiguous bands with exclusive upper
// bounds:
//
//	<10 km  #a3f600 | 10-30 #dcf400 | 30-50 #f7db11
//	50-70   #fdb72a | 70-90 #fca35d | 90-110 #ff5f65
//
// Depths of 110 km and deeper, and NaN depths, get [DeepFallbackColor].
package domain
