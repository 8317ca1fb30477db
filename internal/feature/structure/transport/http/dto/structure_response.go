// Package dto は相場構造APIのレスポンス型を定義します。
package dto

import "xauusd_backend/internal/feature/structure/domain/entity"

// PivotResponse はピボットポイントのJSON表現です。
type PivotResponse struct {
	P  float64 `json:"p"`
	R1 float64 `json:"r1"`
	R2 float64 `json:"r2"`
	S1 float64 `json:"s1"`
	S2 float64 `json:"s2"`
}

// ZoneResponse は需給ゾーンのJSON表現です。
type ZoneResponse struct {
	Type       string  `json:"type"`
	PriceStart float64 `json:"priceStart"`
	PriceEnd   float64 `json:"priceEnd"`
	TimeStart  int64   `json:"timeStart"`
}

// StructureResponse は GET /v1/structure の応答です。
// 本数が足りない場合 pivots は null になります。
type StructureResponse struct {
	Pivots *PivotResponse `json:"pivots"`
	Zones  []ZoneResponse `json:"zones"`
}

// FromStructure はエンティティをレスポンスに変換します。
func FromStructure(s entity.Structure) StructureResponse {
	out := StructureResponse{Zones: make([]ZoneResponse, 0, len(s.Zones))}
	if s.Pivots != nil {
		p := *s.Pivots
		out.Pivots = &PivotResponse{P: p.P, R1: p.R1, R2: p.R2, S1: p.S1, S2: p.S2}
	}
	for _, z := range s.Zones {
		out.Zones = append(out.Zones, ZoneResponse{
			Type:       string(z.Type),
			PriceStart: z.PriceStart,
			PriceEnd:   z.PriceEnd,
			TimeStart:  z.TimeStart,
		})
	}
	return out
}
