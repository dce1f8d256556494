package dataset

// Manifest display names for the suite levels.
const (
	level1Name = "Simple Rectangular Rooms"
	level2Name = "Multiple Rooms"
)

// roomSpec places one labeled rectangular room by its top-left corner
// and size.
type roomSpec struct {
	x, y, w, h float64
	label      string
}

// layout is one synthetic floor plan in a suite level.
type layout struct {
	id          string
	description string
	rooms       []roomSpec
}

// Level 1 plans hold a handful of large axis-aligned rooms with clear
// separation, the easiest shapes for a detector to find.
var level1Layouts = []layout{
	{
		id:          "level1_test_001",
		description: "Two rooms side by side",
		rooms: []roomSpec{
			{50, 50, 400, 500, "Living Room"},
			{500, 50, 400, 500, "Kitchen"},
		},
	},
	{
		id:          "level1_test_002",
		description: "Three rooms in a row",
		rooms: []roomSpec{
			{50, 50, 250, 400, "Bedroom 1"},
			{350, 50, 250, 400, "Bedroom 2"},
			{650, 50, 250, 400, "Bathroom"},
		},
	},
	{
		id:          "level1_test_003",
		description: "Four rooms in 2x2 grid",
		rooms: []roomSpec{
			{50, 50, 400, 400, "Kitchen"},
			{500, 50, 400, 400, "Dining Room"},
			{50, 500, 400, 400, "Living Room"},
			{500, 500, 400, 400, "Bedroom"},
		},
	},
	{
		id:          "level1_test_004",
		description: "Two rooms stacked",
		rooms: []roomSpec{
			{200, 50, 600, 400, "Office"},
			{200, 500, 600, 400, "Storage"},
		},
	},
	{
		id:          "level1_test_005",
		description: "Single large room",
		rooms: []roomSpec{
			{100, 100, 800, 700, "Great Room"},
		},
	},
	{
		id:          "level1_test_006",
		description: "Three rooms with hallway",
		rooms: []roomSpec{
			{50, 50, 300, 400, "Bedroom"},
			{400, 50, 300, 400, "Bathroom"},
			{750, 50, 200, 400, "Closet"},
			{50, 500, 900, 100, "Hallway"},
		},
	},
	{
		id:          "level1_test_007",
		description: "Four small utility rooms",
		rooms: []roomSpec{
			{50, 50, 200, 200, "Closet 1"},
			{300, 50, 200, 200, "Closet 2"},
			{550, 50, 200, 200, "Closet 3"},
			{800, 50, 150, 200, "Closet 4"},
		},
	},
	{
		id:          "level1_test_008",
		description: "Two large suites",
		rooms: []roomSpec{
			{50, 50, 450, 800, "Master Suite"},
			{550, 50, 400, 800, "Guest Suite"},
		},
	},
	{
		id:          "level1_test_009",
		description: "Five rooms L-shape",
		rooms: []roomSpec{
			{50, 50, 300, 300, "Kitchen"},
			{400, 50, 300, 300, "Dining"},
			{750, 50, 200, 300, "Pantry"},
			{50, 400, 300, 500, "Living Room"},
			{400, 400, 550, 500, "Family Room"},
		},
	},
	{
		id:          "level1_test_010",
		description: "Three rooms different sizes",
		rooms: []roomSpec{
			{50, 50, 200, 300, "Small Room"},
			{300, 50, 400, 500, "Medium Room"},
			{750, 50, 200, 700, "Tall Room"},
		},
	},
}

// Level 2 plans are denser multi-room layouts, five to eight rooms with
// varied sizes and narrow service spaces.
var level2Layouts = []layout{
	{
		id:          "level2_test_011",
		description: "Standard apartment layout",
		rooms: []roomSpec{
			{50, 50, 300, 400, "Bedroom 1"},
			{400, 50, 300, 400, "Bedroom 2"},
			{750, 50, 200, 200, "Bathroom"},
			{750, 300, 200, 150, "Closet"},
			{50, 500, 400, 400, "Living Room"},
			{500, 500, 450, 300, "Kitchen"},
			{500, 850, 450, 50, "Balcony"},
		},
	},
	{
		id:          "level2_test_012",
		description: "Office floor plan",
		rooms: []roomSpec{
			{50, 50, 200, 200, "Office 1"},
			{300, 50, 200, 200, "Office 2"},
			{550, 50, 200, 200, "Office 3"},
			{800, 50, 150, 200, "Office 4"},
			{50, 300, 300, 400, "Conference Room"},
			{400, 300, 250, 200, "Break Room"},
			{700, 300, 250, 200, "Reception"},
			{400, 550, 550, 150, "Hallway"},
		},
	},
	{
		id:          "level2_test_013",
		description: "House with garage",
		rooms: []roomSpec{
			{50, 50, 300, 400, "Garage"},
			{400, 50, 300, 300, "Entry"},
			{750, 50, 200, 300, "Closet"},
			{400, 400, 550, 400, "Living Room"},
			{50, 500, 300, 350, "Kitchen"},
			{400, 850, 300, 100, "Dining"},
			{750, 400, 200, 550, "Bedroom"},
		},
	},
	{
		id:          "level2_test_014",
		description: "Multi-room suite",
		rooms: []roomSpec{
			{50, 50, 400, 500, "Bedroom"},
			{500, 50, 300, 300, "Bathroom"},
			{850, 50, 100, 300, "Closet"},
			{500, 400, 450, 150, "Sitting Area"},
			{50, 600, 300, 350, "Study"},
			{400, 600, 550, 350, "Living Area"},
		},
	},
	{
		id:          "level2_test_015",
		description: "Hotel room layout",
		rooms: []roomSpec{
			{50, 50, 400, 600, "Bedroom"},
			{500, 50, 200, 250, "Bathroom"},
			{750, 50, 200, 250, "Closet"},
			{500, 350, 450, 300, "Living Area"},
			{50, 700, 900, 250, "Balcony"},
		},
	},
	{
		id:          "level2_test_016",
		description: "School classroom layout",
		rooms: []roomSpec{
			{50, 50, 300, 400, "Classroom 1"},
			{400, 50, 300, 400, "Classroom 2"},
			{750, 50, 200, 400, "Storage"},
			{50, 500, 200, 400, "Office"},
			{300, 500, 400, 200, "Library"},
			{300, 750, 400, 150, "Hallway"},
			{750, 500, 200, 400, "Bathroom"},
		},
	},
	{
		id:          "level2_test_017",
		description: "Restaurant layout",
		rooms: []roomSpec{
			{50, 50, 400, 500, "Dining Area 1"},
			{500, 50, 450, 500, "Dining Area 2"},
			{50, 600, 300, 350, "Kitchen"},
			{400, 600, 200, 200, "Storage"},
			{650, 600, 300, 200, "Bar"},
			{400, 850, 200, 100, "Restroom"},
			{650, 850, 300, 100, "Entrance"},
		},
	},
	{
		id:          "level2_test_018",
		description: "Retail store",
		rooms: []roomSpec{
			{50, 50, 400, 400, "Sales Floor 1"},
			{500, 50, 450, 400, "Sales Floor 2"},
			{50, 500, 300, 450, "Storage"},
			{400, 500, 250, 200, "Office"},
			{700, 500, 250, 200, "Break Room"},
			{400, 750, 200, 200, "Restroom"},
			{650, 750, 300, 200, "Checkout"},
		},
	},
	{
		id:          "level2_test_019",
		description: "Medical clinic",
		rooms: []roomSpec{
			{50, 50, 250, 300, "Exam Room 1"},
			{350, 50, 250, 300, "Exam Room 2"},
			{650, 50, 300, 300, "Waiting Room"},
			{50, 400, 300, 500, "Office"},
			{400, 400, 300, 250, "Lab"},
			{750, 400, 200, 250, "Storage"},
			{400, 700, 300, 200, "Reception"},
			{750, 700, 200, 200, "Restroom"},
		},
	},
	{
		id:          "level2_test_020",
		description: "Studio apartment",
		rooms: []roomSpec{
			{50, 50, 600, 700, "Main Living"},
			{700, 50, 250, 300, "Bathroom"},
			{700, 400, 250, 200, "Closet"},
			{50, 800, 300, 150, "Kitchen"},
			{400, 800, 550, 150, "Dining"},
		},
	},
	{
		id:          "level2_test_021",
		description: "Two-bedroom apartment",
		rooms: []roomSpec{
			{50, 50, 350, 400, "Bedroom 1"},
			{450, 50, 350, 400, "Bedroom 2"},
			{850, 50, 100, 200, "Bathroom"},
			{850, 300, 100, 150, "Closet"},
			{50, 500, 500, 400, "Living Room"},
			{600, 500, 350, 250, "Kitchen"},
			{600, 800, 350, 100, "Dining"},
		},
	},
	{
		id:          "level2_test_022",
		description: "Warehouse layout",
		rooms: []roomSpec{
			{50, 50, 700, 600, "Warehouse Floor"},
			{800, 50, 150, 300, "Office"},
			{800, 400, 150, 250, "Break Room"},
			{50, 700, 300, 250, "Loading Dock"},
			{400, 700, 300, 250, "Storage"},
			{750, 700, 200, 250, "Restroom"},
		},
	},
	{
		id:          "level2_test_023",
		description: "Gym layout",
		rooms: []roomSpec{
			{50, 50, 500, 500, "Main Gym"},
			{600, 50, 350, 300, "Locker Room"},
			{600, 400, 350, 150, "Shower"},
			{50, 600, 300, 350, "Yoga Room"},
			{400, 600, 250, 200, "Office"},
			{700, 600, 250, 200, "Reception"},
			{400, 850, 550, 100, "Hallway"},
		},
	},
	{
		id:          "level2_test_024",
		description: "Library layout",
		rooms: []roomSpec{
			{50, 50, 500, 600, "Reading Room"},
			{600, 50, 350, 300, "Study Room 1"},
			{600, 400, 350, 250, "Study Room 2"},
			{50, 700, 300, 250, "Children's Area"},
			{400, 700, 250, 250, "Office"},
			{700, 700, 250, 250, "Reception"},
		},
	},
	{
		id:          "level2_test_025",
		description: "Co-working space",
		rooms: []roomSpec{
			{50, 50, 400, 400, "Open Workspace"},
			{500, 50, 450, 400, "Meeting Room"},
			{50, 500, 300, 400, "Private Office 1"},
			{400, 500, 300, 400, "Private Office 2"},
			{750, 500, 200, 200, "Kitchen"},
			{750, 750, 200, 150, "Restroom"},
		},
	},
}
