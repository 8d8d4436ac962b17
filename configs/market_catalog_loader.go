package config

import (
	"fmt"
	"os"

	"coal-market-api/pkg/models"

	"gopkg.in/yaml.v3"
)

// marketCatalogFile はカタログYAMLの構造を定義
//
//	catalog:
//	  coal_types: ["动力煤 Q5500", ...]
//	  locations:  ["秦皇岛港", ...]
//	  sources:    ["中国煤炭市场网", ...]
type marketCatalogFile struct {
	Catalog models.MarketCatalog `yaml:"catalog"`
}

// LoadMarketCatalog はYAMLファイルから煤種・地点・出所のリストを読み込む。
// path が空の場合は組み込みのカタログを返す。未指定の項目は組み込み値で補う。
func LoadMarketCatalog(path string) (models.MarketCatalog, error) {
	catalog := models.DefaultMarketCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return catalog, fmt.Errorf("カタログファイルの読み込みに失敗: %w", err)
	}

	var file marketCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return catalog, fmt.Errorf("YAMLのパースに失敗: %w", err)
	}

	if len(file.Catalog.CoalTypes) > 0 {
		catalog.CoalTypes = file.Catalog.CoalTypes
	}
	if len(file.Catalog.Locations) > 0 {
		catalog.Locations = file.Catalog.Locations
	}
	if len(file.Catalog.Sources) > 0 {
		catalog.Sources = file.Catalog.Sources
	}
	return catalog, nil
}
