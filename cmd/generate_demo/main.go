// Command generate_demo creates a demo database with a sample cafe catalog.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/brewhouse/cafe-admin/internal/database"
	"github.com/brewhouse/cafe-admin/internal/importers"
	"github.com/brewhouse/cafe-admin/internal/logging"
	"github.com/brewhouse/cafe-admin/internal/services"
)

const defaultDemoDatabasePath = "./demo/demo.db"

const demoCategories = `name,name_es,description,description_es,display_order,is_active
Coffee,Café,Espresso drinks and filter coffee,Bebidas de espresso y café de filtro,1,true
Tea,Té,Loose leaf teas,Tés en hoja,2,true
Pastries,Bollería,Baked fresh every morning,Horneado cada mañana,3,true
Sandwiches,Bocadillos,,,4,true
Seasonal,Temporada,"Limited items, while they last","Productos limitados, hasta agotar existencias",5,false`

const demoMenuItems = `name,name_es,category_name,description,description_es,price,image_url,is_available,is_featured,display_order
Espresso,Espresso,Coffee,,,2.20,,true,false,1
Flat White,Flat White,Coffee,Double ristretto with steamed milk,Doble ristretto con leche texturizada,3.40,,true,true,2
Oat Latte,Latte de avena,Coffee,,,3.80,,true,false,3
Earl Grey,Earl Grey,Té,,,2.60,,true,false,1
Butter Croissant,Croissant de mantequilla,Pastries,,,2.50,,true,true,1
Almond Croissant,Croissant de almendra,Pastries,,,3.10,,true,false,2
Ham & Cheese,Jamón y queso,Sandwiches,"Ham, cheddar and mustard on sourdough","Jamón, cheddar y mostaza en pan de masa madre",6.50,,true,false,1
Pumpkin Spice Latte,Latte de calabaza,Seasonal,,,4.50,,false,false,1`

// Allergens assigned after import, keyed by menu item name.
var demoAllergens = map[string][]string{
	"Flat White":          {"milk"},
	"Butter Croissant":    {"gluten", "milk", "eggs"},
	"Almond Croissant":    {"gluten", "milk", "eggs", "tree nuts"},
	"Ham & Cheese":        {"gluten", "milk", "mustard"},
	"Pumpkin Spice Latte": {"milk"},
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	logger, err := logging.Setup("info", "console")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	zap.L().Info("Generating demo database", zap.String("path", *dbPath))

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		zap.L().Fatal("Failed to remove existing demo database", zap.Error(err))
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		zap.L().Fatal("Failed to create database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	store := database.NewCatalogStore(db.DB)
	catalog := services.NewCatalogService(store, importers.Options{})

	for _, step := range []struct {
		name string
		run  func(context.Context, string) (importers.ImportResult, error)
		csv  string
	}{
		{"categories", catalog.ImportCategories, demoCategories},
		{"menu items", catalog.ImportMenuItems, demoMenuItems},
	} {
		result, err := step.run(ctx, step.csv)
		if err != nil {
			zap.L().Fatal("Failed to import demo data", zap.String("kind", step.name), zap.Error(err))
		}
		zap.L().Info("Imported demo data",
			zap.String("kind", step.name),
			zap.Int("created", result.CreatedCount),
			zap.Strings("errors", result.Errors),
		)
	}

	assignAllergens(ctx, store)

	zap.L().Info("Demo database generated successfully")
}

func assignAllergens(ctx context.Context, store *database.CatalogStore) {
	items, err := store.ListMenuItems(ctx)
	if err != nil {
		zap.L().Fatal("Failed to list menu items", zap.Error(err))
	}
	for _, item := range items {
		names, ok := demoAllergens[item.Name]
		if !ok {
			continue
		}
		if err := store.SetAllergens(ctx, item.ID, names); err != nil {
			zap.L().Warn("Failed to set allergens", zap.String("item", item.Name), zap.Error(err))
			continue
		}
		zap.L().Info("Set allergens", zap.String("item", item.Name), zap.String("allergens", strings.Join(names, ", ")))
	}
}
