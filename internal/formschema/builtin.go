package formschema

const DefaultProductType = "amigurumi"

var builtin = []Schema{
	{
		ProductType: DefaultProductType,
		Fields: []Field{
			{Key: "character", Label: "Personaje", Kind: KindText, Required: true},
			{Key: "main_color", Label: "Color principal", Kind: KindText, Required: true},
			{Key: "style", Label: "Estilo", Kind: KindSelect, Options: []string{"clasico", "chibi", "realista"}, Required: true},
			{Key: "quantity", Label: "Cantidad", Kind: KindNumber},
			{Key: "gift_note", Label: "Nota de regalo", Kind: KindText},
			{Key: "safety_eyes", Label: "Ojos de seguridad", Kind: KindCheckbox},
		},
	},
	{
		ProductType: "keychain",
		Fields: []Field{
			{Key: "character", Label: "Personaje", Kind: KindText, Required: true},
			{Key: "ring", Label: "Argolla", Kind: KindSelect, Options: []string{"plateada", "dorada"}, Required: true},
		},
	},
}
