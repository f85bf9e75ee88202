package chat

import (
	"fmt"
	"strings"
)

// SystemPrompt fixes the assistant's role and subject scope: a Python
// programming tutor for intermediate-grade students, answering in Arabic.
const SystemPrompt = `أنت مساعد ذكي متخصص في تعليم البرمجة للطلاب في الصف الثالث المتوسط.
تحدث باللغة العربية الفصحى بطريقة بسيطة ومفهومة.
اختصاصك هو شرح مفاهيم البرمجة بلغة Python وحل المشاكل البرمجية.

المنهج يشمل:
1. القوائم وصفوف البيانات
2. المكتبات البرمجية
3. بناء الواجهات الرسومية بلغة بايثون
4. القواميس
5. القوائم المتداخلة
6. الملفات

قدم شروحات واضحة مع أمثلة عملية. إذا سأل الطالب سؤالاً خارج نطاق البرمجة، وجهه بلطف للتركيز على دروس البرمجة.`

// RenderContext renders chronological turns as alternating Student/Assistant
// lines for the prompt.
func RenderContext(turns []Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		if t.Role == RoleUser {
			lines = append(lines, "Student: "+t.Message)
		} else {
			lines = append(lines, "Assistant: "+t.Text())
		}
	}
	return strings.Join(lines, "\n")
}

func BuildPrompt(context, message string) string {
	if context == "" {
		return fmt.Sprintf("%s\n\nالسؤال: %s", SystemPrompt, message)
	}
	return fmt.Sprintf("%s\n\nسياق المحادثة السابقة:\n%s\n\nالسؤال الحالي: %s", SystemPrompt, context, message)
}

// BuildContinuationPrompt asks the model to pick up a truncated answer where
// it stopped, without repeating the preamble or the context.
func BuildContinuationPrompt(context, message, partial string) string {
	return fmt.Sprintf("%s\n\nسياق المحادثة السابقة:\n%s\n\nالسؤال الحالي: %s\n\nرد المساعد السابق (مقطوع):\n%s\n\nأكمل الرد السابق من حيث انتهى، ولا تكرر المقدمة أو السياق.",
		SystemPrompt, context, message, partial)
}
