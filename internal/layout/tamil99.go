package layout

// Tamil99 key assignments, following the official Tamil99 standard as
// shipped in the ekwtamil99uni keyboard. Consonant-vowel ligatures are
// typed consonant key first, vowel sign key second (e.g. கா = h then q),
// and the pulli is the f key (க் = h then f).

const pulli = "்" // ்

// Base consonants. Uppercase keys are the shifted Grantha row.
var tamil99Consonants = map[string]string{
	"க": "h", "ப": "j", "ம": "k", "த": "l", "ந": ";",
	"வ": "v", "ய": "'", "ல": "n", "ர": "m",
	"ங": "b", "ஞ": "]", "ச": "[", "ழ": "/",
	"ள": "y", "ற": "u", "ன": "i", "ட": "o", "ண": "p",
	"ஸ": "Q", "ஷ": "W", "ஜ": "E", "ஹ": "R", "ஶ": "U",
	"க்ஷ": "T",
}

// Standalone vowels.
var tamil99Vowels = map[string]string{
	"அ": "a", "ஆ": "q", "இ": "s", "ஈ": "w",
	"உ": "d", "ஊ": "e", "எ": "g", "ஏ": "t",
	"ஐ": "r", "ஒ": "c", "ஓ": "x", "ஔ": "z",
}

// Vowel signs as they combine with a consonant key.
var tamil99VowelSigns = map[string]string{
	"ா": "q", "ி": "s", "ீ": "w", "ு": "d", "ூ": "e",
	"ெ": "g", "ே": "t", "ை": "r", "ொ": "c", "ோ": "x", "ௌ": "z",
}

// Tamil numerals are typed behind the ^# prefix.
var tamil99Numerals = map[string]string{
	"௧": "^#1", "௨": "^#2", "௩": "^#3", "௪": "^#4", "௫": "^#5",
	"௬": "^#6", "௭": "^#7", "௮": "^#8", "௯": "^#9", "௦": "^#0",
}

// Symbols on the shifted rows: rupee, calendar and ledger marks, Om.
var tamil99Symbols = map[string]string{
	"௹": "A", "௺": "S", "௸": "D", "௱": "L",
	"௳": "Z", "௴": "X", "௵": "C", "௶": "V", "௷": "B",
	"ௐ": "N",
}

const asciiPunct = ".,!?;:'\"()-"

// NewTamil99 builds the Tamil99 layout table. Consonant+pulli and
// consonant+vowel-sign ligatures are generated from the base maps rather
// than enumerated. ASCII letters, digits, and common punctuation resolve
// to themselves so mixed-script drills stay typable.
func NewTamil99() *Table {
	t := &Table{seqs: map[string][]KeyStroke{}}

	for char, key := range tamil99Vowels {
		t.add(char, key)
	}
	for cons, key := range tamil99Consonants {
		t.add(cons, key)
		t.add(cons+pulli, key+"f")
		for sign, signKey := range tamil99VowelSigns {
			t.add(cons+sign, key+signKey)
		}
	}
	for sign, signKey := range tamil99VowelSigns {
		t.add(sign, "^"+signKey)
	}
	for char, keys := range tamil99Numerals {
		t.add(char, keys)
	}
	for char, key := range tamil99Symbols {
		t.add(char, key)
	}
	t.add(pulli, "f")
	t.add("ஃ", "F")
	t.add("ஶ்ரீ", "Y")

	t.add(" ", " ")
	for r := 'a'; r <= 'z'; r++ {
		t.add(string(r), string(r))
		t.add(string(r-'a'+'A'), string(r-'a'+'A'))
	}
	for r := '0'; r <= '9'; r++ {
		t.add(string(r), string(r))
	}
	for _, r := range asciiPunct {
		if _, ok := t.seqs[string(r)]; !ok {
			t.add(string(r), string(r))
		}
	}
	return t
}
