// Package cargo defines the resource taxonomy for the transport simulation.
// This package is PURE and must NOT import any infrastructure packages.
package cargo

// Category represents the coarse cargo grouping used for aggregate reporting.
type Category string

const (
	// CategoryNone is the sentinel for uncategorized cargo. It is never a
	// real category: entries carrying it are counted but never summed.
	CategoryNone Category = "NONE"

	CategoryOil         Category = "OIL"
	CategoryForestry    Category = "FORESTRY"
	CategoryAgriculture Category = "AGRICULTURE"
	CategoryMail        Category = "MAIL"
	CategoryOre         Category = "ORE"
	CategoryGoods       Category = "GOODS"
	CategoryFish        Category = "FISH"
)

// Categories lists the seven real categories in reporting order.
// CategoryNone is deliberately excluded.
var Categories = []Category{
	CategoryOil,
	CategoryForestry,
	CategoryAgriculture,
	CategoryMail,
	CategoryOre,
	CategoryGoods,
	CategoryFish,
}

// Destination classifies a transfer relative to the city boundary.
type Destination string

const (
	DestinationLocal  Destination = "LOCAL"  // Stayed inside the city
	DestinationImport Destination = "IMPORT" // Came in from the outside world
	DestinationExport Destination = "EXPORT" // Left for the outside world
)

// Destinations lists all destination classes in reporting order.
var Destinations = []Destination{
	DestinationLocal,
	DestinationImport,
	DestinationExport,
}

// Resource identifies the fine-grained cargo kind carried on a transfer.
type Resource string

const (
	// ResourceNone marks an unknown or untyped load.
	ResourceNone Resource = "NONE"

	ResourceCrude  Resource = "CRUDE"
	ResourcePetrol Resource = "PETROL"
	ResourceCoal   Resource = "COAL"

	ResourceLogs   Resource = "LOGS"
	ResourcePlanks Resource = "PLANKS"

	ResourceGrain     Resource = "GRAIN"
	ResourceFood      Resource = "FOOD"
	ResourceLivestock Resource = "LIVESTOCK"

	ResourceMail Resource = "MAIL"

	ResourceOre   Resource = "ORE"
	ResourceStone Resource = "STONE"

	ResourceGoods     Resource = "GOODS"
	ResourceTools     Resource = "TOOLS"
	ResourceMachines  Resource = "MACHINES"
	ResourceMaterials Resource = "MATERIALS"

	ResourceFish Resource = "FISH"
)

// categoryTable is the fixed many-to-one mapping from cargo kind to category.
// Every shipped kind has exactly one entry; the table is data, not logic.
var categoryTable = map[Resource]Category{
	ResourceCrude:  CategoryOil,
	ResourcePetrol: CategoryOil,
	ResourceCoal:   CategoryOil,

	ResourceLogs:   CategoryForestry,
	ResourcePlanks: CategoryForestry,

	ResourceGrain:     CategoryAgriculture,
	ResourceFood:      CategoryAgriculture,
	ResourceLivestock: CategoryAgriculture,

	ResourceMail: CategoryMail,

	ResourceOre:   CategoryOre,
	ResourceStone: CategoryOre,

	ResourceGoods:     CategoryGoods,
	ResourceTools:     CategoryGoods,
	ResourceMachines:  CategoryGoods,
	ResourceMaterials: CategoryGoods,

	ResourceFish: CategoryFish,
}

// Resources lists every known cargo kind, ResourceNone excluded.
func Resources() []Resource {
	out := make([]Resource, 0, len(categoryTable))
	for r := range categoryTable {
		out = append(out, r)
	}
	return out
}

// CategoryOf returns the category for a cargo kind. The mapping is total:
// ResourceNone and any kind this build does not recognize resolve to
// CategoryNone, so new game content degrades to "uncategorized" instead of
// failing.
func CategoryOf(r Resource) Category {
	if c, ok := categoryTable[r]; ok {
		return c
	}
	return CategoryNone
}
