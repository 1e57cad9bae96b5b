package store

import "github.com/tonicwater/backend/internal/types"

// defaultPairings seeds the gin collection when storage is empty.
func defaultPairings() []types.Pairing {
	return []types.Pairing{
		{
			Name:    "Tanqueray London Dry",
			Profile: "Classic Dry",
			Tonic:   "Fever-Tree Indian Tonic Water",
			Garnish: "Lime wedge",
			Why:     "Bold juniper needs a neutral, crisp tonic that carries the citrus without competing.",
		},
		{
			Name:    "Hendrick's",
			Profile: "Floral",
			Tonic:   "Fever-Tree Elderflower Tonic Water",
			Garnish: "Cucumber ribbon",
			Why:     "The rose and cucumber infusion pairs with elderflower sweetness for a soft, perfumed serve.",
		},
		{
			Name:    "Bombay Sapphire",
			Profile: "Citrus Forward",
			Tonic:   "Schweppes Tonic Water",
			Garnish: "Lemon twist",
			Why:     "Vapour-infused botanicals stay light, so a straightforward tonic keeps the citrus in front.",
		},
		{
			Name:    "Monkey 47",
			Profile: "Herbal Complex",
			Tonic:   "Fever-Tree Mediterranean Tonic Water",
			Garnish: "Sage leaf",
			Why:     "Forty-seven botanicals want a softer, herbaceous tonic that rounds out the spice.",
		},
		{
			Name:    "The Botanist",
			Profile: "Herbal",
			Tonic:   "Fentimans Tonic Water",
			Garnish: "Rosemary sprig",
			Why:     "Islay's foraged herbs echo Fentimans' botanical brew for a garden-fresh glass.",
		},
		{
			Name:    "Plymouth",
			Profile: "Earthy Smooth",
			Tonic:   "Q Tonic Water",
			Garnish: "Orange peel",
			Why:     "A softer, earthier style that a drier, less sweet tonic lets breathe.",
		},
	}
}

// defaultTonicLinks seeds the tonic lookup table used to derive shop links.
func defaultTonicLinks() []types.TonicLink {
	return []types.TonicLink{
		{Tonic: "fever-tree indian tonic water", URL: "https://www.amazon.com/s?k=fever+tree+indian+tonic+water"},
		{Tonic: "fever-tree elderflower tonic water", URL: "https://www.amazon.com/s?k=fever+tree+elderflower+tonic+water"},
		{Tonic: "fever-tree mediterranean tonic water", URL: "https://www.amazon.com/s?k=fever+tree+mediterranean+tonic+water"},
		{Tonic: "schweppes tonic water", URL: "https://www.amazon.com/s?k=schweppes+tonic+water"},
		{Tonic: "fentimans tonic water", URL: "https://www.amazon.com/s?k=fentimans+tonic+water"},
		{Tonic: "q tonic water", URL: "https://www.amazon.com/s?k=q+mixers+tonic+water"},
	}
}
