package entity

// AverageRating считает среднюю оценку по списку отзывов
// Для пустого списка всегда ровно 0, округление не применяется
// Вызывается явно на каждом пути мутации отзывов перед сохранением
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}

	return float64(total) / float64(len(reviews))
}
