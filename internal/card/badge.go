package card

// TypeBadge renders one type name as a colored badge.
func TypeBadge(typeName string) string {
	color, ok := typeColors[typeName]
	if !ok {
		color = fallbackTypeColor
	}
	return badgeStyle.Background(color).Render(typeName)
}
