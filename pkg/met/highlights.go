package met

import "math/rand"

// HighlightIDs is a curated list of collection highlights spanning European
// and American painting, sculpture, medieval tapestries, Asian, Egyptian,
// and Greek and Roman art. Hand-picked; the collection API's own highlight
// flag is too broad to drive a "surprise me" feature.
var HighlightIDs = []int{
	// Iconic masterpieces
	547802, // The Temple of Dendur
	11417,  // Washington Crossing the Delaware - Emanuel Leutze
	12127,  // Madame X (Madame Pierre Gautreau) - John Singer Sargent
	437394, // Aristotle with a Bust of Homer - Rembrandt
	436105, // The Death of Socrates - Jacques Louis David
	435621, // Joan of Arc - Jules Bastien-Lepage
	436532, // Self-Portrait with a Straw Hat - Vincent van Gogh
	436535, // Wheat Field with Cypresses - Vincent van Gogh
	11122,  // The Gulf Stream - Winslow Homer

	// Dutch and Flemish painting
	435868, // The Card Players - Paul Cézanne
	437881, // Young Woman with a Water Pitcher - Johannes Vermeer
	437878, // A Maid Asleep - Johannes Vermeer
	437877, // Allegory of the Catholic Faith - Johannes Vermeer
	437879, // Study of a Young Woman - Johannes Vermeer
	435809, // The Harvesters - Pieter Bruegel the Elder
	435802, // Portrait of a Young Man - Bronzino
	435844, // The Musicians - Caravaggio
	437986, // The Denial of Saint Peter - Caravaggio

	// Spanish painting
	437869, // Juan de Pareja - Diego Velázquez
	436575, // View of Toledo - El Greco
	199313, // Portrait of a Cardinal - El Greco
	436576, // The Vision of Saint John - El Greco

	// Rembrandt
	437393, // The Toilet of Bathsheba
	437392, // Herman Doomer

	// Impressionism and Post-Impressionism
	438817, // The Dance Class - Edgar Degas
	436121, // A Woman Seated beside a Vase of Flowers - Edgar Degas
	436155, // The Rehearsal Onstage - Edgar Degas
	436002, // Woman with a Parrot - Gustave Courbet
	436944, // The Spanish Singer - Édouard Manet
	436896, // Woman Reading - Édouard Manet
	437133, // Garden at Sainte-Adresse - Claude Monet
	437127, // Bridge over a Pond of Water Lilies - Claude Monet
	438821, // Ia Orana Maria - Paul Gauguin
	436446, // Two Tahitian Women - Paul Gauguin
	357387, // The Siesta - Paul Gauguin
	13209,  // Arrangement in Grey and Black - James McNeill Whistler
	435882, // Still Life with Apples - Paul Cézanne

	// American art
	10819,  // Max Schmitt in a Single Scull - Thomas Eakins
	10154,  // The Rocky Mountains, Lander's Peak - Albert Bierstadt
	10481,  // The Heart of the Andes - Frederic Edwin Church
	10159,  // Fur Traders Descending the Missouri - George Caleb Bingham
	11140,  // Snap the Whip - Winslow Homer
	437941, // Lake George - John Frederick Kensett

	// Sculpture
	204758, // Perseus with the Head of Medusa - Antonio Canova
	204812, // Ugolino and His Sons - Jean-Baptiste Carpeaux
	196439, // The Little Fourteen-Year-Old Dancer - Edgar Degas
	10827,  // The Thinker - Auguste Rodin
	38108,  // Bust of a Woman - Francesco Laurana

	// Arms and armor
	24671, // Armor of Henry II of France

	// Unicorn Tapestries
	467642, // The Unicorn in Captivity
	467640, // The Unicorn Defends Itself
	467637, // The Hunters Enter the Woods

	// Asian art
	42731,  // Water and Moon Guanyin Bodhisattva
	39799,  // The Great Wave off Kanagawa - Katsushika Hokusai
	51088,  // Night Rain at Karasaki - Utagawa Hiroshige
	44701,  // Bamboo and Rock
	494071, // Red and White Plum Blossoms
	39889,  // Portrait of the Zen Master Zhongfeng Mingben

	// Egyptian art
	544442, // Sphinx of Hatshepsut
	544450, // Seated Statue of Hatshepsut
	547716, // Canopic Jar
	459126, // William the Hippo
	549169, // Cult image of the god Ptah
	544184, // Face of Senwosret III
	544498, // Sphinx of Amenhotep III

	// Greek and Roman art
	248140, // Marble statue of a kouros
	248132, // Marble statue of an old woman
	248891, // Bronze statue of a horse
	254502, // Statue of Eros sleeping
	252890, // Marble grave stele of a little girl
	257603, // Marble head of Athena
	248205, // Marble sarcophagus with the Muses and the Sirens
}

// RandomHighlightID picks one curated highlight at random.
func RandomHighlightID() int {
	return HighlightIDs[rand.Intn(len(HighlightIDs))]
}
