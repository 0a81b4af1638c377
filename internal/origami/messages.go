package origami

// User-facing strings. The product UI is Hebrew; these are surfaced
// verbatim in the error banner and as the default slot title.
const (
	defaultTitle = "פגישה"

	msgHTMLResponse = "התקבל דף HTML במקום מידע. בדוק את כתובת ה-API והמפתח. ייתכן והמערכת מפנה לדף התחברות."
	msgAuthRequired = "המערכת דורשת התחברות מחדש. ייתכן שמפתח ה-API פג תוקף."
	msgMissingKey   = "מפתח ה-API אינו מוגדר בשרת. הגדר את ORIGAMI_API_KEY בהגדרות השרת."
	msgTransport    = "שגיאת תקשורת עם השרת"
	msgTimeout      = "תם הזמן המוקצב לבקשה. נסה לרענן שוב."

	backendErrorPrefix = "שגיאת אוריגמי: "
)

// Classification kinds placed in the envelope's error field. The kinds are
// stable machine-readable markers; the Hebrew messages above are derived
// from them client-side by ClassifyError.
const (
	KindHTMLResponse   = "HTML Response"
	KindInvalidBody    = "Invalid Response"
	KindProxyFatal     = "Proxy Fatal Error"
	KindTimeout        = "Request Timeout"
	KindMisconfigured  = "Server Misconfiguration"
	KindMissingTarget  = "Missing Collection"
	KindMethodNotAllow = "Method Not Allowed"
)
