package models

import "strings"

// WildcardSelector は「全部」を表すセレクタ値です。
const WildcardSelector = "全部"

// StreamingSource はストリーミング生成されたレコードの出所ラベルです。
const StreamingSource = "实时搜寻网络节点"

// MarketCatalog 煤種・地点・出所の固定リスト
type MarketCatalog struct {
	CoalTypes []string `json:"coal_types" yaml:"coal_types"`
	Locations []string `json:"locations" yaml:"locations"`
	Sources   []string `json:"sources" yaml:"sources"`
}

// DefaultMarketCatalog returns the built-in catalog.
func DefaultMarketCatalog() MarketCatalog {
	return MarketCatalog{
		CoalTypes: []string{
			"动力煤 Q5500",
			"炼焦煤 主焦",
			"无烟煤 块煤",
			"喷吹煤 PCI",
			"褐煤 Q3500",
		},
		Locations: []string{
			"秦皇岛港",
			"曹妃甸港",
			"京唐港",
			"黄骅港",
			"广州港",
			"鄂尔多斯",
			"榆林",
			"大同",
		},
		Sources: []string{
			"中国煤炭市场网",
			"秦皇岛海运煤炭交易市场",
			"汾渭能源",
			"鄂尔多斯煤炭网",
			"找煤网",
		},
	}
}

// IsWildcard reports whether a selector matches everything.
func IsWildcard(selector string) bool {
	s := strings.TrimSpace(selector)
	return s == "" || s == WildcardSelector || strings.EqualFold(s, "all")
}

// TypeLabel returns the short type name shown on charts ("动力煤 Q5500" -> "动力煤").
func TypeLabel(coalType string) string {
	if i := strings.Index(coalType, " "); i >= 0 {
		return coalType[:i]
	}
	return coalType
}
