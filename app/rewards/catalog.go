package rewards

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/billix/billix-be/model"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type Catalog struct {
	items []*model.CatalogItem
	byId  map[string]*model.CatalogItem
}

type catalogFile struct {
	Items []*model.CatalogItem `yaml:"items"`
}

func LoadCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	catalog := &Catalog{
		byId: make(map[string]*model.CatalogItem, len(file.Items)),
	}
	for _, item := range file.Items {
		if item.Id == "" {
			return nil, fmt.Errorf("catalog item %q has no id", item.Name)
		}
		if _, dup := catalog.byId[item.Id]; dup {
			return nil, fmt.Errorf("duplicate catalog item %v", item.Id)
		}
		if item.PointsCost <= 0 {
			return nil, fmt.Errorf("catalog item %v must cost points", item.Id)
		}
		if item.Kind != model.CatalogGiftCard && item.Kind != model.CatalogVirtualGood {
			return nil, fmt.Errorf("catalog item %v has unknown kind %v", item.Id, item.Kind)
		}
		catalog.byId[item.Id] = item
		catalog.items = append(catalog.items, item)
	}
	sort.SliceStable(catalog.items, func(i, j int) bool {
		return catalog.items[i].PointsCost < catalog.items[j].PointsCost
	})
	return catalog, nil
}

// DefaultCatalog parses the catalog compiled into the binary
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultCatalogYAML)
}

// Items is ordered by ascending cost
func (c *Catalog) Items() []*model.CatalogItem {
	return c.items
}

func (c *Catalog) Find(id string) (*model.CatalogItem, error) {
	item, ok := c.byId[id]
	if !ok {
		return nil, ErrCatalogItemNotFound
	}
	return item, nil
}
