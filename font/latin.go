package font

// latinEntry gives the code of a glyph in each of the four simple
// encodings. Zero means the glyph is not encoded.
type latinEntry struct {
	name               string
	std, mac, win, pdf byte
}

var latinEncoding = [...]latinEntry{
	{"A", 0101, 0101, 0101, 0101},
	{"a", 0141, 0141, 0141, 0141},
	{"Aacute", 0, 0347, 0301, 0301},
	{"aacute", 0, 0207, 0341, 0341},
	{"Acircumflex", 0, 0345, 0302, 0302},
	{"acircumflex", 0, 0211, 0342, 0342},
	{"acute", 0302, 0253, 0264, 0264},
	{"Adieresis", 0, 0200, 0304, 0304},
	{"adieresis", 0, 0212, 0344, 0344},
	{"AE", 0341, 0256, 0306, 0306},
	{"ae", 0361, 0276, 0346, 0346},
	{"Agrave", 0, 0313, 0300, 0300},
	{"agrave", 0, 0210, 0340, 0340},
	{"ampersand", 046, 046, 046, 046},
	{"Aring", 0, 0201, 0305, 0305},
	{"aring", 0, 0214, 0345, 0345},
	{"asciicircum", 0136, 0136, 0136, 0136},
	{"asciitilde", 0176, 0176, 0176, 0176},
	{"asterisk", 052, 052, 052, 052},
	{"at", 0100, 0100, 0100, 0100},
	{"Atilde", 0, 0314, 0303, 0303},
	{"atilde", 0, 0213, 0343, 0343},
	{"B", 0102, 0102, 0102, 0102},
	{"backslash", 0134, 0134, 0134, 0134},
	{"bar", 0174, 0174, 0174, 0174},
	{"b", 0142, 0142, 0142, 0142},
	{"braceleft", 0173, 0173, 0173, 0173},
	{"braceright", 0175, 0175, 0175, 0175},
	{"bracketleft", 0133, 0133, 0133, 0133},
	{"bracketright", 0135, 0135, 0135, 0135},
	{"breve", 0306, 0371, 0, 030},
	{"brokenbar", 0, 0, 0246, 0246},
	{"bullet", 0267, 0245, 0225, 0200},
	{"C", 0103, 0103, 0103, 0103},
	{"caron", 0317, 0377, 0, 031},
	{"c", 0143, 0143, 0143, 0143},
	{"Ccedilla", 0, 0202, 0307, 0307},
	{"ccedilla", 0, 0215, 0347, 0347},
	{"cedilla", 0313, 0374, 0270, 0270},
	{"cent", 0242, 0242, 0242, 0242},
	{"circumflex", 0303, 0366, 0210, 032},
	{"colon", 072, 072, 072, 072},
	{"comma", 054, 054, 054, 054},
	{"copyright", 0, 0251, 0251, 0251},
	{"currency", 0250, 0333, 0244, 0244},
	{"D", 0104, 0104, 0104, 0104},
	{"dagger", 0262, 0240, 0206, 0201},
	{"daggerdbl", 0263, 0340, 0207, 0202},
	{"d", 0144, 0144, 0144, 0144},
	{"degree", 0, 0241, 0260, 0260},
	{"dieresis", 0310, 0254, 0250, 0250},
	{"divide", 0, 0326, 0367, 0367},
	{"dollar", 044, 044, 044, 044},
	{"dotaccent", 0307, 0372, 0, 033},
	{"dotlessi", 0365, 0365, 0, 0232},
	{"E", 0105, 0105, 0105, 0105},
	{"Eacute", 0, 0203, 0311, 0311},
	{"eacute", 0, 0216, 0351, 0351},
	{"Ecircumflex", 0, 0346, 0312, 0312},
	{"ecircumflex", 0, 0220, 0352, 0352},
	{"Edieresis", 0, 0350, 0313, 0313},
	{"edieresis", 0, 0221, 0353, 0353},
	{"e", 0145, 0145, 0145, 0145},
	{"Egrave", 0, 0351, 0310, 0310},
	{"egrave", 0, 0217, 0350, 0350},
	{"eight", 070, 070, 070, 070},
	{"ellipsis", 0274, 0311, 0205, 0203},
	{"emdash", 0320, 0321, 0227, 0204},
	{"endash", 0261, 0320, 0226, 0205},
	{"equal", 075, 075, 075, 075},
	{"Eth", 0, 0, 0320, 0320},
	{"eth", 0, 0, 0360, 0360},
	{"Euro", 0, 0, 0200, 0240},
	{"exclamdown", 0241, 0301, 0241, 0241},
	{"exclam", 041, 041, 041, 041},
	{"F", 0106, 0106, 0106, 0106},
	{"f", 0146, 0146, 0146, 0146},
	{"fi", 0256, 0336, 0, 0223},
	{"five", 065, 065, 065, 065},
	{"fl", 0257, 0337, 0, 0224},
	{"florin", 0246, 0304, 0203, 0206},
	{"four", 064, 064, 064, 064},
	{"fraction", 0244, 0332, 0, 0207},
	{"G", 0107, 0107, 0107, 0107},
	{"germandbls", 0373, 0247, 0337, 0337},
	{"g", 0147, 0147, 0147, 0147},
	{"grave", 0301, 0140, 0140, 0140},
	{"greater", 076, 076, 076, 076},
	{"guillemotleft", 0253, 0307, 0253, 0253},
	{"guillemotright", 0273, 0310, 0273, 0273},
	{"guilsinglleft", 0254, 0334, 0213, 0210},
	{"guilsinglright", 0255, 0335, 0233, 0211},
	{"H", 0110, 0110, 0110, 0110},
	{"h", 0150, 0150, 0150, 0150},
	{"hungarumlaut", 0315, 0375, 0, 034},
	{"hyphen", 055, 055, 055, 055},
	{"I", 0111, 0111, 0111, 0111},
	{"Iacute", 0, 0352, 0315, 0315},
	{"iacute", 0, 0222, 0355, 0355},
	{"Icircumflex", 0, 0353, 0316, 0316},
	{"icircumflex", 0, 0224, 0356, 0356},
	{"Idieresis", 0, 0354, 0317, 0317},
	{"idieresis", 0, 0225, 0357, 0357},
	{"Igrave", 0, 0355, 0314, 0314},
	{"igrave", 0, 0223, 0354, 0354},
	{"i", 0151, 0151, 0151, 0151},
	{"J", 0112, 0112, 0112, 0112},
	{"j", 0152, 0152, 0152, 0152},
	{"K", 0113, 0113, 0113, 0113},
	{"k", 0153, 0153, 0153, 0153},
	{"L", 0114, 0114, 0114, 0114},
	{"less", 074, 074, 074, 074},
	{"l", 0154, 0154, 0154, 0154},
	{"logicalnot", 0, 0302, 0254, 0254},
	{"Lslash", 0350, 0, 0, 0225},
	{"lslash", 0370, 0, 0, 0233},
	{"M", 0115, 0115, 0115, 0115},
	{"macron", 0305, 0370, 0257, 0257},
	{"minus", 0, 0, 0, 0212},
	{"m", 0155, 0155, 0155, 0155},
	{"multiply", 0, 0, 0327, 0327},
	{"mu", 0, 0265, 0265, 0265},
	{"N", 0116, 0116, 0116, 0116},
	{"nine", 071, 071, 071, 071},
	{"n", 0156, 0156, 0156, 0156},
	{"Ntilde", 0, 0204, 0321, 0321},
	{"ntilde", 0, 0226, 0361, 0361},
	{"numbersign", 043, 043, 043, 043},
	{"O", 0117, 0117, 0117, 0117},
	{"Oacute", 0, 0356, 0323, 0323},
	{"oacute", 0, 0227, 0363, 0363},
	{"Ocircumflex", 0, 0357, 0324, 0324},
	{"ocircumflex", 0, 0231, 0364, 0364},
	{"Odieresis", 0, 0205, 0326, 0326},
	{"odieresis", 0, 0232, 0366, 0366},
	{"OE", 0352, 0316, 0214, 0226},
	{"oe", 0372, 0317, 0234, 0234},
	{"ogonek", 0316, 0376, 0, 035},
	{"Ograve", 0, 0361, 0322, 0322},
	{"ograve", 0, 0230, 0362, 0362},
	{"onehalf", 0, 0, 0275, 0275},
	{"one", 061, 061, 061, 061},
	{"onequarter", 0, 0, 0274, 0274},
	{"onesuperior", 0, 0, 0271, 0271},
	{"o", 0157, 0157, 0157, 0157},
	{"ordfeminine", 0343, 0273, 0252, 0252},
	{"ordmasculine", 0353, 0274, 0272, 0272},
	{"Oslash", 0351, 0257, 0330, 0330},
	{"oslash", 0371, 0277, 0370, 0370},
	{"Otilde", 0, 0315, 0325, 0325},
	{"otilde", 0, 0233, 0365, 0365},
	{"P", 0120, 0120, 0120, 0120},
	{"paragraph", 0266, 0246, 0266, 0266},
	{"parenleft", 050, 050, 050, 050},
	{"parenright", 051, 051, 051, 051},
	{"percent", 045, 045, 045, 045},
	{"periodcentered", 0264, 0341, 0267, 0267},
	{"period", 056, 056, 056, 056},
	{"perthousand", 0275, 0344, 0211, 0213},
	{"plusminus", 0, 0261, 0261, 0261},
	{"plus", 053, 053, 053, 053},
	{"p", 0160, 0160, 0160, 0160},
	{"Q", 0121, 0121, 0121, 0121},
	{"q", 0161, 0161, 0161, 0161},
	{"questiondown", 0277, 0300, 0277, 0277},
	{"question", 077, 077, 077, 077},
	{"quotedblbase", 0271, 0343, 0204, 0214},
	{"quotedblleft", 0252, 0322, 0223, 0215},
	{"quotedbl", 042, 042, 042, 042},
	{"quotedblright", 0272, 0323, 0224, 0216},
	{"quoteleft", 0140, 0324, 0221, 0217},
	{"quoteright", 047, 0325, 0222, 0220},
	{"quotesinglbase", 0270, 0342, 0202, 0221},
	{"quotesingle", 0251, 047, 047, 047},
	{"R", 0122, 0122, 0122, 0122},
	{"registered", 0, 0250, 0256, 0256},
	{"ring", 0312, 0373, 0, 036},
	{"r", 0162, 0162, 0162, 0162},
	{"S", 0123, 0123, 0123, 0123},
	{"Scaron", 0, 0, 0212, 0227},
	{"scaron", 0, 0, 0232, 0235},
	{"section", 0247, 0244, 0247, 0247},
	{"semicolon", 073, 073, 073, 073},
	{"seven", 067, 067, 067, 067},
	{"six", 066, 066, 066, 066},
	{"slash", 057, 057, 057, 057},
	{"space", 040, 040, 040, 040},
	{"s", 0163, 0163, 0163, 0163},
	{"sterling", 0243, 0243, 0243, 0243},
	{"T", 0124, 0124, 0124, 0124},
	{"Thorn", 0, 0, 0336, 0336},
	{"thorn", 0, 0, 0376, 0376},
	{"threequarters", 0, 0, 0276, 0276},
	{"threesuperior", 0, 0, 0263, 0263},
	{"three", 063, 063, 063, 063},
	{"tilde", 0304, 0367, 0230, 037},
	{"trademark", 0, 0252, 0231, 0222},
	{"t", 0164, 0164, 0164, 0164},
	{"twosuperior", 0, 0, 0262, 0262},
	{"two", 062, 062, 062, 062},
	{"U", 0125, 0125, 0125, 0125},
	{"Uacute", 0, 0362, 0332, 0332},
	{"uacute", 0, 0234, 0372, 0372},
	{"Ucircumflex", 0, 0363, 0333, 0333},
	{"ucircumflex", 0, 0236, 0373, 0373},
	{"Udieresis", 0, 0206, 0334, 0334},
	{"udieresis", 0, 0237, 0374, 0374},
	{"Ugrave", 0, 0364, 0331, 0331},
	{"ugrave", 0, 0235, 0371, 0371},
	{"underscore", 0137, 0137, 0137, 0137},
	{"u", 0165, 0165, 0165, 0165},
	{"V", 0126, 0126, 0126, 0126},
	{"v", 0166, 0166, 0166, 0166},
	{"W", 0127, 0127, 0127, 0127},
	{"w", 0167, 0167, 0167, 0167},
	{"X", 0130, 0130, 0130, 0130},
	{"x", 0170, 0170, 0170, 0170},
	{"Y", 0131, 0131, 0131, 0131},
	{"Yacute", 0, 0, 0335, 0335},
	{"yacute", 0, 0, 0375, 0375},
	{"Ydieresis", 0, 0331, 0237, 0230},
	{"ydieresis", 0, 0330, 0377, 0377},
	{"yen", 0245, 0264, 0245, 0245},
	{"y", 0171, 0171, 0171, 0171},
	{"Z", 0132, 0132, 0132, 0132},
	{"Zcaron", 0, 0, 0216, 0231},
	{"zcaron", 0, 0, 0236, 0236},
	{"zero", 060, 060, 060, 060},
	{"z", 0172, 0172, 0172, 0172},
}
