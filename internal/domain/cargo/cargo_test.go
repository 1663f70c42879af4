package cargo

import "testing"

func TestEveryResourceHasCategory(t *testing.T) {
	for _, r := range Resources() {
		if r == ResourceNone {
			continue
		}
		if CategoryOf(r) == CategoryNone {
			t.Errorf("Resource %s maps to no category", r)
		}
	}
}

func TestNoneResourceMapsToNoneCategory(t *testing.T) {
	if got := CategoryOf(ResourceNone); got != CategoryNone {
		t.Errorf("Expected NONE category for NONE resource, got %s", got)
	}
}

func TestUnknownResourceDegradesToNone(t *testing.T) {
	// New game content the mapper has never heard of must not panic or
	// land in a real category.
	if got := CategoryOf(Resource("ANTIMATTER")); got != CategoryNone {
		t.Errorf("Expected unknown resource to degrade to NONE, got %s", got)
	}
}

func TestCategoriesExcludeSentinel(t *testing.T) {
	for _, c := range Categories {
		if c == CategoryNone {
			t.Errorf("Categories list must not contain the NONE sentinel")
		}
	}
	if len(Categories) != 7 {
		t.Errorf("Expected 7 reportable categories, got %d", len(Categories))
	}
}

func TestCategoryTableCoversKnownKinds(t *testing.T) {
	cases := map[Resource]Category{
		ResourceCrude:  CategoryOil,
		ResourceCoal:   CategoryOil,
		ResourcePlanks: CategoryForestry,
		ResourceGrain:  CategoryAgriculture,
		ResourceMail:   CategoryMail,
		ResourceStone:  CategoryOre,
		ResourceTools:  CategoryGoods,
		ResourceFish:   CategoryFish,
	}

	for r, want := range cases {
		if got := CategoryOf(r); got != want {
			t.Errorf("CategoryOf(%s) = %s, want %s", r, got, want)
		}
	}
}
