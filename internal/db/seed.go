package db

import (
	"context"
	"database/sql"
	"fmt"
)

// SeedLessons inserts the six-unit Python curriculum if missing. Question
// banks for these lessons are embedded in the binary; the questions_json
// column stays empty and is only used by lessons added later through the
// lessons table.
func SeedLessons(ctx context.Context, db *sql.DB) error {
	lessons := []struct {
		id          int
		title, desc string
	}{
		{1, "القوائم وصفوف البيانات", "إنشاء القوائم وصفوف البيانات والتعامل مع عناصرها"},
		{2, "المكتبات البرمجية", "استيراد المكتبات الجاهزة واستخدام دوالها"},
		{3, "بناء الواجهات الرسومية بلغة بايثون", "إنشاء النوافذ وعناصر الواجهة باستخدام tkinter"},
		{4, "القواميس", "تخزين البيانات كأزواج مفتاح وقيمة"},
		{5, "القوائم المتداخلة", "القوائم داخل القوائم وتمثيل المصفوفات"},
		{6, "الملفات", "قراءة الملفات النصية والكتابة فيها"},
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed lessons: %w", err)
	}
	for _, l := range lessons {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO lessons (id, lesson_number, lesson_title, lesson_description)
			 VALUES ($1,$2,$3,$4) ON CONFLICT DO NOTHING`,
			l.id, l.id, l.title, l.desc)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("seed lessons: %w", err)
		}
	}
	return tx.Commit()
}
