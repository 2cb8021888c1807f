package i18n

// Catalog of user-facing messages shared by the cart, checkout and storefront.
var (
	MsgAddedToCart   = Text{EN: "Product added to cart", AR: "تم إضافة المنتج إلى السلة"}
	MsgCartEmpty     = Text{EN: "Your cart is empty", AR: "سلة التسوق فارغة"}
	MsgOrderPlaced   = Text{EN: "Your order has been placed successfully!", AR: "تم تأكيد طلبك بنجاح!"}
	MsgGenericError  = Text{EN: "An error occurred. Please try again.", AR: "حدث خطأ. يرجى المحاولة مرة أخرى."}
	MsgNotFound      = Text{EN: "The requested item could not be found.", AR: "تعذر العثور على العنصر المطلوب."}
	MsgFieldRequired = Text{EN: "Please fill in this field", AR: "يرجى ملء هذا الحقل"}
	MsgInvalidEmail  = Text{EN: "Please enter a valid email address", AR: "يرجى إدخال بريد إلكتروني صالح"}
	MsgSelectPayment = Text{EN: "Please select a payment method", AR: "يرجى اختيار طريقة الدفع"}
	MsgSubmitPending = Text{EN: "Your order is being submitted", AR: "جارٍ إرسال طلبك"}
	MsgNoCheckout    = Text{EN: "Checkout is not open", AR: "إتمام الطلب غير مفتوح"}
	MsgRemoved       = Text{EN: "Item removed from cart", AR: "تمت إزالة المنتج من السلة"}
	MsgCartUpdated   = Text{EN: "Cart updated", AR: "تم تحديث السلة"}
	MsgLowStock      = Text{EN: "Only %d left in stock", AR: "متبقي %d فقط في المخزون"}
	MsgLangChanged   = Text{EN: "Language set to English", AR: "تم تغيير اللغة إلى العربية"}
	MsgCancelled     = Text{EN: "Checkout cancelled", AR: "تم إلغاء إتمام الطلب"}
	MsgInvalidQty    = Text{EN: "Quantity must be at least 1", AR: "يجب أن تكون الكمية 1 على الأقل"}
	MsgOrderNumber   = Text{EN: "Order number: %s", AR: "رقم الطلب: %s"}
	MsgFormSent      = Text{EN: "Thank you! Your submission has been received.", AR: "شكراً لك! تم استلام طلبك."}
	MsgUnknownInput  = Text{EN: "Unknown command. Type help for the list of commands.", AR: "أمر غير معروف. اكتب help لعرض قائمة الأوامر."}
	MsgOffline       = Text{EN: "Showing offline catalog", AR: "يتم عرض الكتالوج دون اتصال"}

	StepShipping = Text{EN: "1. Shipping", AR: "1. الشحن"}
	StepPayment  = Text{EN: "2. Payment", AR: "2. الدفع"}
	StepReview   = Text{EN: "3. Review", AR: "3. المراجعة"}

	LabelTotal       = Text{EN: "Total", AR: "المجموع"}
	LabelCard        = Text{EN: "Credit Card", AR: "بطاقة ائتمان"}
	LabelFawry       = Text{EN: "Fawry", AR: "فوري"}
	LabelFullName    = Text{EN: "Full Name", AR: "الاسم الكامل"}
	LabelEmail       = Text{EN: "Email Address", AR: "البريد الإلكتروني"}
	LabelPhone       = Text{EN: "Phone Number", AR: "رقم الهاتف"}
	LabelCity        = Text{EN: "City", AR: "المدينة"}
	LabelAddress     = Text{EN: "Full Address", AR: "العنوان الكامل"}
	LabelReviewOrder = Text{EN: "Review Your Order", AR: "مراجعة طلبك"}
	LabelShipTo      = Text{EN: "Ship to", AR: "الشحن إلى"}
	LabelPayment     = Text{EN: "Payment", AR: "الدفع"}
	LabelQuantity    = Text{EN: "Qty", AR: "الكمية"}
	LabelStock       = Text{EN: "In stock", AR: "متوفر"}
	LabelArtisan     = Text{EN: "Artisan", AR: "الحرفية"}
	LabelMaterials   = Text{EN: "Materials", AR: "الخامات"}
	LabelCare        = Text{EN: "Care", AR: "العناية"}
	LabelItems       = Text{EN: "Items", AR: "المنتجات"}
	LabelCurrency    = Text{EN: "EGP", AR: "ج.م"}
	LabelTextiles    = Text{EN: "Textiles diverted (kg)", AR: "المنسوجات المعاد تدويرها (كجم)"}
	LabelWomen       = Text{EN: "Women trained", AR: "النساء المدربات"}
	LabelIncome      = Text{EN: "Income disbursed", AR: "الدخل الموزع"}
	LabelCampaign    = Text{EN: "Campaign", AR: "الحملة"}
)
