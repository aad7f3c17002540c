package reentry

// Built-in solar-system catalog. GM values follow JPL DE440, radii and
// rotational parameters IAU 2015 (pck00011), canonical orbits are J2000
// osculating elements. Spheres of influence use the Laplace r·(GM/GM_ref)^2/5
// estimate rounded to three figures; bodies whose estimate falls inside their
// own radius carry none. The Earth-Moon and Pluto systems keep an explicit
// barycenter since their mass ratios displace it measurably; for the other
// planets the barycenter coincides with the planet and is omitted.
//
// The Sun is pinned at the system barycenter. The ~0.005 AU offset this
// ignores is far below the accuracy of the canonical elements themselves.

// SolarSystem returns the built-in body catalog. The caller owns the slice
// and may append to or modify it before building a registry.
func SolarSystem() []Body {
	return []Body{
		{ID: "ssb", Name: "Solar System Barycenter", Kind: KindBarycenter},
		{
			ID: "sun", Name: "Sun", Kind: KindStar, Parent: "ssb",
			GM: 1.32712440018e11, Radius: 696000,
			Pole:           Pole{RA: 286.13, Dec: 63.87},
			RotationPeriod: 2192832,
			SOI:            0,
		},
		{
			ID: "mercury", Name: "Mercury", Kind: KindPlanet, Parent: "ssb", Ref: "sun",
			GM: 22031.86855, Radius: 2439.7, J2: 6.0e-5,
			Pole:           Pole{RA: 281.0103, RARate: -0.0328, Dec: 61.4155, DecRate: -0.0049},
			RotationPeriod: 5067014,
			SOI:            112000,
			Orbit:          NewElements(57909050.0, 0.2056, 7.005, 48.331, 29.124, 174.796),
		},
		{
			ID: "venus", Name: "Venus", Kind: KindPlanet, Parent: "ssb", Ref: "sun",
			GM: 324858.592, Radius: 6051.8, J2: 4.458e-6,
			Pole:           Pole{RA: 272.76, Dec: 67.16},
			RotationPeriod: -20996798, // retrograde
			SOI:            616000,
			Atmosphere:     &Atmosphere{SeaLevelDensity: 65.0, ScaleHeight: 15.9, Thickness: 350},
			Orbit:          NewElements(108208000.0, 0.0067, 3.3947, 76.680, 54.884, 50.416),
		},
		{ID: "emb", Name: "Earth-Moon Barycenter", Kind: KindBarycenter, Parent: "ssb", SOI: 929000},
		{
			ID: "earth", Name: "Earth", Kind: KindPlanet, Parent: "emb", Ref: "sun",
			GM: 398600.435507, Radius: 6378.1366, J2: 1.08262668e-3,
			Pole:           Pole{RA: 0.0, RARate: -0.641, Dec: 90.0, DecRate: -0.557},
			RotationPeriod: 86164.0905,
			SOI:            924000,
			Atmosphere:     &Atmosphere{SeaLevelDensity: 1.225, ScaleHeight: 8.5, Thickness: 500},
			Orbit:          NewElements(149598023.0, 0.0167, 0.000, -11.26064, 114.20783, 358.617),
		},
		{
			ID: "moon", Name: "Moon", Kind: KindMoon, Parent: "emb", Ref: "earth",
			GM: 4902.800066, Radius: 1737.4, J2: 2.032e-4,
			Pole:           Pole{RA: 269.9949, RARate: 0.0031, Dec: 66.5392, DecRate: 0.0130},
			RotationPeriod: 2360591,
			SOI:            66100,
			Orbit:          NewElements(384400.0, 0.0549, 5.145, 125.08, 318.15, 115.3654),
		},
		{
			ID: "mars", Name: "Mars", Kind: KindPlanet, Parent: "ssb", Ref: "sun",
			GM: 42828.375214, Radius: 3396.19, J2: 1.96045e-3,
			Pole:           Pole{RA: 317.68143, RARate: -0.1061, Dec: 52.88650, DecRate: -0.0609},
			RotationPeriod: 88642.663,
			SOI:            577000,
			Atmosphere:     &Atmosphere{SeaLevelDensity: 0.020, ScaleHeight: 11.1, Thickness: 200},
			Orbit:          NewElements(227939200.0, 0.0935, 1.850, 49.558, 286.502, 19.373),
		},
		{
			ID: "phobos", Name: "Phobos", Kind: KindMoon, Parent: "mars",
			GM: 0.0007112, Radius: 11.2667,
			Pole:           Pole{RA: 317.67071657, RARate: -0.10844326, Dec: 52.88627266, DecRate: -0.06134706},
			RotationPeriod: 27554,
			Orbit:          NewElements(9376.0, 0.0151, 1.075, 49.2, 150.057, 177.4),
		},
		{
			ID: "deimos", Name: "Deimos", Kind: KindMoon, Parent: "mars",
			GM: 0.0000985, Radius: 6.2,
			Pole:           Pole{RA: 316.65705808, RARate: -0.10518014, Dec: 53.50992033, DecRate: -0.05979094},
			RotationPeriod: 109074,
			Orbit:          NewElements(23463.2, 0.00033, 1.788, 316.65, 260.729, 53.2),
		},
		{
			ID: "jupiter", Name: "Jupiter", Kind: KindPlanet, Parent: "ssb", Ref: "sun",
			GM: 126686531.9, Radius: 71492, J2: 0.014696,
			Pole:           Pole{RA: 268.056595, RARate: -0.006499, Dec: 64.495303, DecRate: 0.002413},
			RotationPeriod: 35730,
			SOI:            48200000,
			Orbit:          NewElements(778570000.0, 0.0489, 1.303, 100.464, 273.867, 20.020),
		},
		{
			ID: "io", Name: "Io", Kind: KindMoon, Parent: "jupiter",
			GM: 595.6, Radius: 1821.6,
			Pole:           Pole{RA: 268.05, RARate: -0.009, Dec: 64.50, DecRate: 0.003},
			RotationPeriod: 152853,
			SOI:            3110,
			Orbit:          NewElements(421700.0, 0.0041, 0.036, 43.977, 84.129, 171.016),
		},
		{
			ID: "europa", Name: "Europa", Kind: KindMoon, Parent: "jupiter",
			GM: 320.0, Radius: 1560.8,
			Pole:           Pole{RA: 268.08, RARate: -0.009, Dec: 64.51, DecRate: 0.003},
			RotationPeriod: 306822,
			SOI:            3860,
			Orbit:          NewElements(671034.0, 0.009, 0.465, 219.106, 88.970, 29.298),
		},
		{
			ID: "ganymede", Name: "Ganymede", Kind: KindMoon, Parent: "jupiter",
			GM: 988.7, Radius: 2634.1,
			Pole:           Pole{RA: 268.20, RARate: -0.009, Dec: 64.57, DecRate: 0.003},
			RotationPeriod: 618153,
			SOI:            9700,
			Orbit:          NewElements(1070412.0, 0.0013, 0.177, 63.552, 192.417, 192.417),
		},
		{
			ID: "callisto", Name: "Callisto", Kind: KindMoon, Parent: "jupiter",
			GM: 717.0, Radius: 2410.3,
			Pole:           Pole{RA: 268.72, RARate: -0.009, Dec: 64.83, DecRate: 0.003},
			RotationPeriod: 1441931,
			SOI:            15000,
			Orbit:          NewElements(1882709.0, 0.007, 0.192, 298.848, 52.643, 52.643),
		},
		{
			ID: "saturn", Name: "Saturn", Kind: KindPlanet, Parent: "ssb", Ref: "sun",
			GM: 37931207.8, Radius: 60268, J2: 0.016298,
			Pole:           Pole{RA: 40.589, RARate: -0.036, Dec: 83.537, DecRate: -0.004},
			RotationPeriod: 38362,
			SOI:            54600000,
			Orbit:          NewElements(1433530000.0, 0.0565, 2.485, 113.665, 339.392, 317.020),
		},
		{
			ID: "titan", Name: "Titan", Kind: KindMoon, Parent: "saturn",
			GM: 8978.0, Radius: 2574.7,
			Pole:           Pole{RA: 39.4827, Dec: 83.4279},
			RotationPeriod: 1377691,
			SOI:            43200,
			Atmosphere:     &Atmosphere{SeaLevelDensity: 5.43, ScaleHeight: 20.0, Thickness: 600},
			Orbit:          NewElements(1221870.0, 0.0288, 0.34854, 78.6, 78.3, 11.7),
		},
		{
			ID: "uranus", Name: "Uranus", Kind: KindPlanet, Parent: "ssb", Ref: "sun",
			GM: 5793951.3, Radius: 25559.0,
			Pole:           Pole{RA: 257.311, Dec: -15.175},
			RotationPeriod: -62064, // retrograde
			SOI:            51800000,
			Orbit:          NewElements(2875040000.0, 0.0463, 0.773, 74.006, 96.998, 142.2386),
		},
		{
			ID: "neptune", Name: "Neptune", Kind: KindPlanet, Parent: "ssb", Ref: "sun",
			GM: 6835103.1, Radius: 24764.0,
			Pole:           Pole{RA: 299.36, Dec: 43.46},
			RotationPeriod: 57996,
			SOI:            86800000,
			Orbit:          NewElements(4504450000.0, 0.0097, 1.770, 131.784, 273.187, 256.228),
		},
		{
			ID: "triton", Name: "Triton", Kind: KindMoon, Parent: "neptune",
			GM: 1427.6, Radius: 1353.4,
			Pole:           Pole{RA: 299.36, Dec: 41.17},
			RotationPeriod: -507773, // retrograde, tidally locked
			SOI:            11900,
			Orbit:          NewElements(354800.0, 0.000, 157.3, 178.1, 0.0, 63.0),
		},
		{ID: "pluto-bc", Name: "Pluto System Barycenter", Kind: KindBarycenter, Parent: "ssb", SOI: 3130000},
		{
			ID: "pluto", Name: "Pluto", Kind: KindPlanet, Parent: "pluto-bc", Ref: "sun",
			GM: 869.613817, Radius: 1188.3,
			Pole:           Pole{RA: 132.993, Dec: -6.163},
			RotationPeriod: -551856, // retrograde
			SOI:            15000,
			Orbit:          NewElements(5906440628.0, 0.2488, 17.16, 110.299, 113.834, 14.53),
		},
		{
			ID: "charon", Name: "Charon", Kind: KindMoon, Parent: "pluto-bc", Ref: "pluto",
			GM: 101.4, Radius: 606.0,
			RotationPeriod: 551856,
			SOI:            8300,
			Orbit:          NewElements(19591.4, 0.000, 96.145, 223.046, 0.0, 0.0),
		},
	}
}

// NewSolarSystemRegistry builds a registry from the built-in catalog.
func NewSolarSystemRegistry() (*BodyRegistry, error) {
	return NewBodyRegistry(SolarSystem())
}
