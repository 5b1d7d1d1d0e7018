package telegram

import "misbar/internal/domain/catalog"

type texts struct {
	start           string
	help            string
	awaitingImage   string
	cancelled       string
	sendTest        string
	unknownCommand  string
	processing      string
	processingError string
	invalidImage    string
	badArgs         string
	panelNotFound   string
	noPanels        string
	noAlerts        string
	alertAcked      string
	alertNotFound   string
	langSet         string

	dashboard      string
	inspected      string
	passed         string
	failed         string
	conformance    string
	defectRate     string
	throughput     string
	criticalAlerts string
	topDefects     string
	noDefects      string
	gallery        string
	liveAlerts     string
	health         string
	defects        string
}

var messages = map[catalog.Locale]texts{
	catalog.LocaleEN: {
		start: `👋 Hi! I am the Misbar line assistant.

📋 Commands:
/stats [today|week|month|year] [el|ir|all] [YYYY] - dashboard
/overview - all periods at once
/gallery [serial] - search panels
/panel <id> - panel details
/alerts - live line alerts
/ack <id> - acknowledge an alert
/test - check a photo with the AI model
/lang ar|en - language
/help - help`,
		help: `ℹ️ How to use:

1️⃣ /stats shows conformance, defect rate and top defects
2️⃣ /gallery finds a panel by serial number
3️⃣ /test then send a panel photo to try the model

💡 EL and IR filters: /stats week ir
📅 Previous year: /stats month 2025`,
		awaitingImage:   "📸 Send a panel image for the AI test.",
		cancelled:       "❌ Cancelled. Send /test to start again.",
		sendTest:        "📸 Send /test first, then a panel image.",
		unknownCommand:  "❓ Unknown command. Use /help.",
		processing:      "⏳ Analysing image...",
		processingError: "⚠️ Could not process the image. Try another photo.",
		invalidImage:    "⚠️ Please select a valid image file.",
		badArgs:         "⚠️ Unknown argument: %s",
		panelNotFound:   "🔍 Panel %d not found.",
		noPanels:        "🔍 No panels found.",
		noAlerts:        "✅ No alerts.",
		alertAcked:      "👌 Alert %s acknowledged.",
		alertNotFound:   "🔍 Alert %s not found.",
		langSet:         "🌐 Language: English",

		dashboard:      "📊 Dashboard",
		inspected:      "Inspected",
		passed:         "Passed",
		failed:         "Failed",
		conformance:    "Conformance",
		defectRate:     "Defect rate",
		throughput:     "Throughput",
		criticalAlerts: "🚨 Critical alerts",
		topDefects:     "📈 Top defects",
		noDefects:      "No defects",
		gallery:        "🖼 Panels",
		liveAlerts:     "🔔 Alerts",
		health:         "Health",
		defects:        "Defects",
	},
	catalog.LocaleAR: {
		start: `👋 مرحباً! أنا مساعد خط مسبار.

📋 الأوامر:
/stats [today|week|month|year] [el|ir|all] [YYYY] - لوحة المؤشرات
/overview - كل الفترات
/gallery [serial] - البحث عن الألواح
/panel <id> - تفاصيل اللوح
/alerts - تنبيهات الخط
/ack <id> - تأكيد تنبيه
/test - اختبار صورة بالذكاء الاصطناعي
/lang ar|en - اللغة
/help - المساعدة`,
		help: `ℹ️ طريقة الاستخدام:

1️⃣ /stats يعرض نسبة المطابقة ونسبة العيوب وأكثر العيوب تكراراً
2️⃣ /gallery للبحث عن لوح بالرقم التسلسلي
3️⃣ /test ثم أرسل صورة اللوح لتجربة النموذج

💡 فلتر EL و IR: /stats week ir
📅 السنة السابقة: /stats month 2025`,
		awaitingImage:   "📸 أرسل صورة اللوح للاختبار.",
		cancelled:       "❌ تم الإلغاء. أرسل /test للبدء من جديد.",
		sendTest:        "📸 أرسل /test أولاً ثم صورة اللوح.",
		unknownCommand:  "❓ أمر غير معروف. استخدم /help.",
		processing:      "⏳ جارٍ تحليل الصورة...",
		processingError: "⚠️ تعذرت معالجة الصورة. جرّب صورة أخرى.",
		invalidImage:    "⚠️ الرجاء اختيار ملف صورة صالح.",
		badArgs:         "⚠️ معامل غير معروف: %s",
		panelNotFound:   "🔍 اللوح %d غير موجود.",
		noPanels:        "🔍 لا توجد ألواح.",
		noAlerts:        "✅ لا توجد تنبيهات.",
		alertAcked:      "👌 تم تأكيد التنبيه %s.",
		alertNotFound:   "🔍 التنبيه %s غير موجود.",
		langSet:         "🌐 اللغة: العربية",

		dashboard:      "📊 لوحة المؤشرات",
		inspected:      "تم فحصها",
		passed:         "سليمة",
		failed:         "معيبة",
		conformance:    "نسبة المطابقة",
		defectRate:     "نسبة العيوب",
		throughput:     "الإنتاجية",
		criticalAlerts: "🚨 تنبيهات حرجة",
		topDefects:     "📈 أكثر العيوب",
		noDefects:      "لا توجد عيوب",
		gallery:        "🖼 الألواح",
		liveAlerts:     "🔔 التنبيهات",
		health:         "الصحة",
		defects:        "العيوب",
	},
}

func textsFor(locale catalog.Locale) texts {
	if t, ok := messages[locale]; ok {
		return t
	}
	return messages[catalog.DefaultLocale]
}
